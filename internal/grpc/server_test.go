package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/auction-draft-values/internal/cache"
	"github.com/Billy-Davies-2/auction-draft-values/internal/dal"
	"github.com/Billy-Davies-2/auction-draft-values/internal/mocks"
	"github.com/Billy-Davies-2/auction-draft-values/internal/pubsub"
	"github.com/Billy-Davies-2/auction-draft-values/internal/room"
)

type harness struct {
	client *Client
	room   *room.Room
	bus    *pubsub.PubSub
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bus := pubsub.New()
	rm := room.New(dal.NewMemoryDAL(), cache.NewMemoryCache(4), bus)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterValuationServiceServer(srv, NewServer(rm, bus))
	go srv.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
		bus.Close()
	})
	return &harness{client: NewClient(conn), room: rm, bus: bus}
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	_, err := h.room.ImportProjections(context.Background(), mocks.NewMockProjectionSource())
	require.NoError(t, err)
}

func (h *harness) topID(t *testing.T) string {
	t.Helper()
	out, err := h.client.GetValues(context.Background(), nil)
	require.NoError(t, err)
	values := out.GetFields()["values"].GetListValue().GetValues()
	require.NotEmpty(t, values)
	for _, v := range values {
		fields := v.GetStructValue().GetFields()
		if fields["rank"].GetNumberValue() == 1 {
			return fields["id"].GetStringValue()
		}
	}
	t.Fatal("no rank 1 player")
	return ""
}

func pickRequest(t *testing.T, id string, price float64) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(map[string]interface{}{
		"playerId":  id,
		"price":     price,
		"isMyBid":   true,
		"draftedBy": "me",
	})
	require.NoError(t, err)
	return req
}

func TestGetValuesEmptyRoom(t *testing.T) {
	h := newHarness(t)

	out, err := h.client.GetValues(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out.GetFields()["values"].GetListValue().GetValues())
}

func TestRecordAndUndoPick(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	ctx := context.Background()
	id := h.topID(t)

	pick, err := h.client.RecordPick(ctx, pickRequest(t, id, 60))
	require.NoError(t, err)
	assert.Equal(t, id, pick.GetFields()["playerId"].GetStringValue())
	assert.Equal(t, float64(1), pick.GetFields()["pickNumber"].GetNumberValue())

	live, err := h.client.GetLiveValues(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(60), live.GetFields()["totalSpent"].GetNumberValue())

	_, err = h.client.RecordPick(ctx, pickRequest(t, id, 10))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	undone, err := h.client.UndoPick(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, id, undone.GetFields()["playerId"].GetStringValue())

	_, err = h.client.UndoPick(ctx, nil)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRecordPickErrors(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	ctx := context.Background()

	_, err := h.client.RecordPick(ctx, pickRequest(t, "nobody", 5))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.client.RecordPick(ctx, pickRequest(t, h.topID(t), 0))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.RecordPick(ctx, pickRequest(t, h.topID(t), 2.5))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestStreamEvents(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter, err := structpb.NewStruct(map[string]interface{}{
		"types": []interface{}{pubsub.EventPickRecorded},
	})
	require.NoError(t, err)
	stream, err := h.client.StreamEvents(ctx, filter)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.bus.SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)

	id := h.topID(t)
	_, err = h.client.RecordPick(ctx, pickRequest(t, id, 42))
	require.NoError(t, err)

	msg, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, pubsub.EventPickRecorded, msg.GetFields()["type"].GetStringValue())
	payload := msg.GetFields()["payload"].GetStructValue().GetFields()
	assert.Equal(t, id, payload["playerId"].GetStringValue())
	assert.Equal(t, float64(42), payload["price"].GetNumberValue())

	cancel()
	require.Eventually(t, func() bool { return h.bus.SubscriberCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{room.ErrInvalid, codes.InvalidArgument},
		{dal.ErrPlayerNotFound, codes.NotFound},
		{dal.ErrPickNotFound, codes.NotFound},
		{dal.ErrAlreadyDrafted, codes.AlreadyExists},
		{context.Canceled, codes.Canceled},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{assert.AnError, codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus("op", tt.err)), tt.err.Error())
	}
}
