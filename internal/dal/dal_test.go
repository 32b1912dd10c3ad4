package dal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

func sampleProjections() []models.PlayerProjection {
	return []models.PlayerProjection{
		{ID: "judge", Name: "Aaron Judge", Team: "NYY", Positions: []string{"OF"}, Stats: map[string]float64{"HR": 45, "AVG": 0.285, "AB": 540}},
		{Name: "Bobby Witt Jr.", Team: "KC", Positions: []string{"SS"}, Stats: map[string]float64{"HR": 30, "SB": 35}},
		{ID: "skubal", Name: "Tarik Skubal", Team: "DET", Positions: []string{"SP"}, Stats: map[string]float64{"SO": 230, "ERA": 2.9, "IP": 190}},
	}
}

// forEachDAL runs fn against every DAL that can run without external services
func forEachDAL(t *testing.T, fn func(t *testing.T, d DraftDAL)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryDAL())
	})
	t.Run("sqlite", func(t *testing.T) {
		d, err := NewSQLiteDAL(filepath.Join(t.TempDir(), "draft.db"))
		if err != nil {
			t.Fatalf("NewSQLiteDAL() failed: %v", err)
		}
		t.Cleanup(func() { d.Close() })
		fn(t, d)
	})
}

func loaded(t *testing.T, d DraftDAL) *models.DraftState {
	t.Helper()
	if err := d.SetProjections(sampleProjections()); err != nil {
		t.Fatalf("SetProjections() failed: %v", err)
	}
	state, err := d.GetState()
	if err != nil {
		t.Fatalf("GetState() failed: %v", err)
	}
	return state
}

func TestInitialState(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		state, err := d.GetState()
		if err != nil {
			t.Fatalf("GetState() failed: %v", err)
		}
		if len(state.Projections) != 0 || len(state.Picks) != 0 || len(state.PendingBids) != 0 {
			t.Errorf("expected an empty draft, got %+v", state)
		}
		if state.Settings.League.TeamCount != 12 {
			t.Errorf("default team count = %d, want 12", state.Settings.League.TeamCount)
		}
	})
}

func TestSetProjectionsAssignsIDs(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		state := loaded(t, d)

		if len(state.Projections) != 3 {
			t.Fatalf("projections = %d, want 3", len(state.Projections))
		}
		if state.Projections[0].ID != "judge" {
			t.Errorf("supplier id replaced: %s", state.Projections[0].ID)
		}
		if want := models.PlayerID("Bobby Witt Jr.", "KC"); state.Projections[1].ID != want {
			t.Errorf("derived id = %s, want %s", state.Projections[1].ID, want)
		}
		if state.Projections[2].Stats["SO"] != 230 {
			t.Errorf("stats lost: %v", state.Projections[2].Stats)
		}
	})
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		settings := models.DefaultDraftSettings()
		settings.League.TeamCount = 10
		settings.Scoring = models.PointsScoring{HitterPoints: map[string]float64{"HR": 4}}
		settings.Values.SplitMode = models.SplitCalculated

		if err := d.SaveSettings(settings); err != nil {
			t.Fatalf("SaveSettings() failed: %v", err)
		}
		state, err := d.GetState()
		if err != nil {
			t.Fatalf("GetState() failed: %v", err)
		}
		if state.Settings.League.TeamCount != 10 || state.Settings.Values.SplitMode != models.SplitCalculated {
			t.Errorf("settings = %+v", state.Settings)
		}
		if _, ok := state.Settings.Scoring.(models.PointsScoring); !ok {
			t.Errorf("scoring = %T, want PointsScoring", state.Settings.Scoring)
		}
	})
}

func TestAddPick(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		loaded(t, d)

		first, err := d.AddPick(models.DraftPick{PlayerID: "judge", Price: 48, DraftedBy: "Team 1", IsMyBid: true})
		if err != nil {
			t.Fatalf("AddPick() failed: %v", err)
		}
		if first.PickNumber != 1 || first.Timestamp.IsZero() {
			t.Errorf("pick = %+v, want number 1 with a timestamp", first)
		}

		second, err := d.AddPick(models.DraftPick{PlayerID: "skubal", Price: 31, DraftedBy: "Team 2"})
		if err != nil {
			t.Fatalf("AddPick() failed: %v", err)
		}
		if second.PickNumber != 2 {
			t.Errorf("second pick number = %d, want 2", second.PickNumber)
		}

		if _, err := d.AddPick(models.DraftPick{PlayerID: "judge", Price: 1}); !errors.Is(err, ErrAlreadyDrafted) {
			t.Errorf("duplicate pick error = %v, want ErrAlreadyDrafted", err)
		}
		if _, err := d.AddPick(models.DraftPick{PlayerID: "nobody", Price: 1}); !errors.Is(err, ErrPlayerNotFound) {
			t.Errorf("unknown player error = %v, want ErrPlayerNotFound", err)
		}

		state, _ := d.GetState()
		if len(state.Picks) != 2 || !state.Picks[0].IsMyBid || state.Picks[0].DraftedBy != "Team 1" {
			t.Errorf("picks = %+v", state.Picks)
		}
	})
}

func TestPickClearsPendingBid(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		loaded(t, d)

		if err := d.SetPendingBid(models.PendingBid{PlayerID: "judge", Price: 40, IsMyBid: true}); err != nil {
			t.Fatalf("SetPendingBid() failed: %v", err)
		}
		if err := d.SetPendingBid(models.PendingBid{PlayerID: "judge", Price: 44, Bidder: "Team 5"}); err != nil {
			t.Fatalf("SetPendingBid() failed: %v", err)
		}
		state, _ := d.GetState()
		if len(state.PendingBids) != 1 || state.PendingBids[0].Price != 44 || state.PendingBids[0].IsMyBid {
			t.Fatalf("bids = %+v, want the replaced bid only", state.PendingBids)
		}

		if _, err := d.AddPick(models.DraftPick{PlayerID: "judge", Price: 45}); err != nil {
			t.Fatalf("AddPick() failed: %v", err)
		}
		state, _ = d.GetState()
		if len(state.PendingBids) != 0 {
			t.Errorf("bids after pick = %+v, want none", state.PendingBids)
		}

		if err := d.SetPendingBid(models.PendingBid{PlayerID: "judge", Price: 50}); !errors.Is(err, ErrAlreadyDrafted) {
			t.Errorf("bid on drafted player error = %v, want ErrAlreadyDrafted", err)
		}
		if err := d.SetPendingBid(models.PendingBid{PlayerID: "ghost", Price: 5}); !errors.Is(err, ErrPlayerNotFound) {
			t.Errorf("bid on unknown player error = %v, want ErrPlayerNotFound", err)
		}
	})
}

func TestClearPendingBid(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		loaded(t, d)
		d.SetPendingBid(models.PendingBid{PlayerID: "skubal", Price: 20})

		if err := d.ClearPendingBid("skubal"); err != nil {
			t.Fatalf("ClearPendingBid() failed: %v", err)
		}
		if err := d.ClearPendingBid("skubal"); err != nil {
			t.Errorf("clearing twice should be a no-op, got %v", err)
		}
		state, _ := d.GetState()
		if len(state.PendingBids) != 0 {
			t.Errorf("bids = %+v, want none", state.PendingBids)
		}
	})
}

func TestUpdateAndDeletePick(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		loaded(t, d)
		d.AddPick(models.DraftPick{PlayerID: "judge", Price: 48, DraftedBy: "Team 1"})

		updated, err := d.UpdatePick("judge", 52, "Team 4")
		if err != nil {
			t.Fatalf("UpdatePick() failed: %v", err)
		}
		if updated.Price != 52 || updated.DraftedBy != "Team 4" || updated.PickNumber != 1 {
			t.Errorf("updated = %+v", updated)
		}
		if _, err := d.UpdatePick("skubal", 10, ""); !errors.Is(err, ErrPickNotFound) {
			t.Errorf("update missing pick error = %v, want ErrPickNotFound", err)
		}

		if err := d.DeletePick("judge"); err != nil {
			t.Fatalf("DeletePick() failed: %v", err)
		}
		if err := d.DeletePick("judge"); !errors.Is(err, ErrPickNotFound) {
			t.Errorf("second delete error = %v, want ErrPickNotFound", err)
		}
	})
}

func TestUndoLastPick(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		loaded(t, d)

		if _, err := d.UndoLastPick(); !errors.Is(err, ErrPickNotFound) {
			t.Errorf("undo with no picks error = %v, want ErrPickNotFound", err)
		}

		d.AddPick(models.DraftPick{PlayerID: "judge", Price: 48})
		d.AddPick(models.DraftPick{PlayerID: "skubal", Price: 31})

		undone, err := d.UndoLastPick()
		if err != nil {
			t.Fatalf("UndoLastPick() failed: %v", err)
		}
		if undone.PlayerID != "skubal" {
			t.Errorf("undid %s, want skubal", undone.PlayerID)
		}

		next, err := d.AddPick(models.DraftPick{PlayerID: "skubal", Price: 29})
		if err != nil {
			t.Fatalf("re-drafting after undo failed: %v", err)
		}
		if next.PickNumber != 2 {
			t.Errorf("pick number after undo = %d, want 2", next.PickNumber)
		}
	})
}

func TestResetKeepsProjectionsAndSettings(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		loaded(t, d)
		settings := models.DefaultDraftSettings()
		settings.League.BudgetPerTeam = 300
		d.SaveSettings(settings)
		d.AddPick(models.DraftPick{PlayerID: "judge", Price: 48})
		d.SetPendingBid(models.PendingBid{PlayerID: "skubal", Price: 20})

		if err := d.Reset(); err != nil {
			t.Fatalf("Reset() failed: %v", err)
		}

		state, _ := d.GetState()
		if len(state.Picks) != 0 || len(state.PendingBids) != 0 {
			t.Errorf("draft not cleared: %+v %+v", state.Picks, state.PendingBids)
		}
		if len(state.Projections) != 3 || state.Settings.League.BudgetPerTeam != 300 {
			t.Errorf("reset dropped projections or settings")
		}
	})
}

func TestSetProjectionsClearsDraft(t *testing.T) {
	forEachDAL(t, func(t *testing.T, d DraftDAL) {
		loaded(t, d)
		d.AddPick(models.DraftPick{PlayerID: "judge", Price: 48})

		if err := d.SetProjections(sampleProjections()[:1]); err != nil {
			t.Fatalf("SetProjections() failed: %v", err)
		}
		state, _ := d.GetState()
		if len(state.Projections) != 1 || len(state.Picks) != 0 {
			t.Errorf("state = %d projections, %d picks; want 1 and 0", len(state.Projections), len(state.Picks))
		}
	})
}

func TestDollarPlaceholders(t *testing.T) {
	got := dollarPlaceholders("UPDATE picks SET price = ?, drafted_by = ? WHERE player_id = ?")
	want := "UPDATE picks SET price = $1, drafted_by = $2 WHERE player_id = $3"
	if got != want {
		t.Errorf("dollarPlaceholders() = %q, want %q", got, want)
	}
}

func TestSQLiteStatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	d, err := NewSQLiteDAL(path)
	if err != nil {
		t.Fatalf("NewSQLiteDAL() failed: %v", err)
	}
	loaded(t, d)
	d.AddPick(models.DraftPick{PlayerID: "judge", Price: 48})
	d.Close()

	reopened, err := NewSQLiteDAL(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	state, err := reopened.GetState()
	if err != nil {
		t.Fatalf("GetState() failed: %v", err)
	}
	if len(state.Projections) != 3 || len(state.Picks) != 1 {
		t.Errorf("state after reopen = %d projections, %d picks", len(state.Projections), len(state.Picks))
	}
}
