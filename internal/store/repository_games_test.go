package store

import (
	"errors"
	"testing"
)

func TestGameJackpotTypesRoundTrip(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	gameID := mustCreateGame(t, st, ctx, 10, 1000)

	// Unmapped games contribute to the minor pool only.
	types, err := st.GetJackpotTypes(ctx, gameID)
	if err != nil {
		t.Fatalf("get types: %v", err)
	}
	if len(types) != 1 || types[0] != JackpotMinor {
		t.Fatalf("expected default [MINOR], got %v", types)
	}

	if err := st.SetGameJackpotTypes(ctx, gameID, []JackpotType{JackpotMajor, JackpotGrand}); err != nil {
		t.Fatalf("set types: %v", err)
	}
	types, err = st.GetJackpotTypes(ctx, gameID)
	if err != nil {
		t.Fatalf("get types: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %v", types)
	}

	// Re-mapping replaces, not appends.
	if err := st.SetGameJackpotTypes(ctx, gameID, []JackpotType{JackpotMinor}); err != nil {
		t.Fatalf("remap types: %v", err)
	}
	types, err = st.GetJackpotTypes(ctx, gameID)
	if err != nil {
		t.Fatalf("get types: %v", err)
	}
	if len(types) != 1 || types[0] != JackpotMinor {
		t.Fatalf("expected [MINOR], got %v", types)
	}
}

func TestGetGameNotFound(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	if _, err := st.GetGame(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
