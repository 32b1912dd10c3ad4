package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/auction-draft-values/internal/dal"
	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
	"github.com/Billy-Davies-2/auction-draft-values/internal/pubsub"
	"github.com/Billy-Davies-2/auction-draft-values/internal/room"
)

// Subscriber is the receiving side of the event bus
type Subscriber interface {
	Subscribe() chan pubsub.Event
	Unsubscribe(chan pubsub.Event)
}

// Server implements ValuationServiceServer on top of a draft room
type Server struct {
	room   *room.Room
	events Subscriber
}

var _ ValuationServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server
func NewServer(rm *room.Room, events Subscriber) *Server {
	return &Server{
		room:   rm,
		events: events,
	}
}

// GetValues returns pre-draft values as {"values": [...]}
func (s *Server) GetValues(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	logger.Debug("gRPC: Getting values")
	values, err := s.room.BaseValues(ctx)
	if err != nil {
		return nil, toStatus("get values", err)
	}
	return toStruct(map[string]interface{}{"values": values})
}

// GetLiveValues returns inflation-adjusted values
func (s *Server) GetLiveValues(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	live, err := s.room.LiveValues(ctx)
	if err != nil {
		return nil, toStatus("get live values", err)
	}
	return toStruct(live)
}

// RecordPick confirms an auction result
func (s *Server) RecordPick(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		PlayerID  string `json:"playerId"`
		Price     int    `json:"price"`
		IsMyBid   bool   `json:"isMyBid"`
		DraftedBy string `json:"draftedBy"`
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decoding pick: %v", err)
	}

	logger.Info("gRPC: Recording pick", "player_id", in.PlayerID, "price", in.Price)
	pick, err := s.room.RecordPick(ctx, models.DraftPick{
		PlayerID:  in.PlayerID,
		Price:     in.Price,
		IsMyBid:   in.IsMyBid,
		DraftedBy: in.DraftedBy,
	})
	if err != nil {
		return nil, toStatus("record pick", err)
	}
	return toStruct(pick)
}

// UndoPick removes the most recent pick and returns it
func (s *Server) UndoPick(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	pick, err := s.room.UndoPick(ctx)
	if err != nil {
		return nil, toStatus("undo pick", err)
	}
	return toStruct(pick)
}

// StreamEvents streams bus events until the client goes away. A "types"
// list in the request limits which event types are sent.
func (s *Server) StreamEvents(req *structpb.Struct, stream EventStream) error {
	var filter map[string]bool
	if list := req.GetFields()["types"].GetListValue(); list != nil {
		filter = make(map[string]bool, len(list.GetValues()))
		for _, v := range list.GetValues() {
			filter[v.GetStringValue()] = true
		}
	}

	logger.Debug("gRPC: New client connected to event stream", "filter", len(filter))
	eventChan := s.events.Subscribe()
	defer s.events.Unsubscribe(eventChan)

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return status.Error(codes.Unavailable, "event bus closed")
			}
			if filter != nil && !filter[event.Type] {
				continue
			}
			msg, err := eventStruct(event)
			if err != nil {
				logger.Warn("gRPC: Dropping unencodable event", "type", event.Type, "error", err)
				continue
			}
			if err := stream.Send(msg); err != nil {
				logger.Error("gRPC: Failed to send event to stream", "error", err)
				return err
			}
		case <-stream.Context().Done():
			logger.Debug("gRPC: Client disconnected from event stream")
			return nil
		}
	}
}

func eventStruct(event pubsub.Event) (*structpb.Struct, error) {
	payload := event.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return toStruct(map[string]interface{}{
		"type":    event.Type,
		"payload": payload,
	})
}

// toStruct converts any JSON-encodable value into a Struct. Going through
// JSON keeps the field names identical to the HTTP API.
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

func fromStruct(s *structpb.Struct, v interface{}) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// toStatus maps room and DAL errors onto gRPC codes
func toStatus(op string, err error) error {
	msg := fmt.Sprintf("%s: %v", op, err)
	switch {
	case errors.Is(err, room.ErrInvalid):
		return status.Error(codes.InvalidArgument, msg)
	case errors.Is(err, dal.ErrPlayerNotFound), errors.Is(err, dal.ErrPickNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, dal.ErrAlreadyDrafted):
		return status.Error(codes.AlreadyExists, msg)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, msg)
	default:
		logger.Error("gRPC: "+op+" failed", "error", err)
		return status.Error(codes.Internal, msg)
	}
}
