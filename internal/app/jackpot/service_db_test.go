package jackpot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"neon-casino/internal/store"
	"neon-casino/internal/testutil"
)

func testDefaults() map[store.JackpotType]PoolConfig {
	max := int64(100000)
	return map[store.JackpotType]PoolConfig{
		store.JackpotMinor: {SeedAmount: 1000, MaxAmount: &max, ContributionRate: 0.01},
		store.JackpotMajor: {SeedAmount: 5000, ContributionRate: 0.005},
		store.JackpotGrand: {SeedAmount: 9000, ContributionRate: 0.001},
	}
}

func openService(t *testing.T) (*Service, *store.Store, func()) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	svc := NewService(st, testDefaults())
	if err := svc.EnsurePools(context.Background()); err != nil {
		cleanup()
		t.Fatalf("ensure pools: %v", err)
	}
	return svc, st, cleanup
}

func TestContributeAccruesMappedTiers(t *testing.T) {
	svc, st, cleanup := openService(t)
	defer cleanup()
	ctx := context.Background()

	gameID := testutil.SeedGame(t, st, 10, 100000, store.JackpotMinor, store.JackpotMajor)

	res, err := svc.Contribute(ctx, gameID, 10000)
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if res.Contributions[store.JackpotMinor] != 100 {
		t.Fatalf("minor: expected 100, got %d", res.Contributions[store.JackpotMinor])
	}
	if res.Contributions[store.JackpotMajor] != 50 {
		t.Fatalf("major: expected 50, got %d", res.Contributions[store.JackpotMajor])
	}
	if res.Total != 150 {
		t.Fatalf("total: expected 150, got %d", res.Total)
	}
	if _, ok := res.Contributions[store.JackpotGrand]; ok {
		t.Fatal("grand is not mapped for this game")
	}

	minor, err := st.GetJackpotPoolByType(ctx, store.JackpotMinor)
	if err != nil {
		t.Fatalf("get minor: %v", err)
	}
	if minor.CurrentAmount != 1100 {
		t.Fatalf("minor pool: expected 1100, got %d", minor.CurrentAmount)
	}
	grand, err := st.GetJackpotPoolByType(ctx, store.JackpotGrand)
	if err != nil {
		t.Fatalf("get grand: %v", err)
	}
	if grand.CurrentAmount != 9000 {
		t.Fatalf("grand pool must be untouched, got %d", grand.CurrentAmount)
	}
}

func TestContributeStopsAtCap(t *testing.T) {
	svc, st, cleanup := openService(t)
	defer cleanup()
	ctx := context.Background()

	gameID := testutil.SeedGame(t, st, 10, 10000000, store.JackpotMinor)

	// Minor caps at 100000 with seed 1000 and rate 0.01: a huge wager
	// lands exactly on the cap, the next wager adds nothing.
	res, err := svc.Contribute(ctx, gameID, 100000000)
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if res.Contributions[store.JackpotMinor] != 99000 {
		t.Fatalf("expected clamp to 99000, got %d", res.Contributions[store.JackpotMinor])
	}

	res, err = svc.Contribute(ctx, gameID, 100000000)
	if err != nil {
		t.Fatalf("contribute at cap: %v", err)
	}
	if res.Total != 0 {
		t.Fatalf("expected zero contribution at cap, got %d", res.Total)
	}

	minor, err := st.GetJackpotPoolByType(ctx, store.JackpotMinor)
	if err != nil {
		t.Fatalf("get minor: %v", err)
	}
	if minor.CurrentAmount != 100000 {
		t.Fatalf("expected pool at cap 100000, got %d", minor.CurrentAmount)
	}
}

func TestContributeConcurrent(t *testing.T) {
	svc, st, cleanup := openService(t)
	defer cleanup()
	ctx := context.Background()
	st.RetryMax = 20

	gameID := testutil.SeedGame(t, st, 10, 100000, store.JackpotMinor)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Contribute(ctx, gameID, 1000)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent contribute: %v", err)
		}
	}

	minor, err := st.GetJackpotPoolByType(ctx, store.JackpotMinor)
	if err != nil {
		t.Fatalf("get minor: %v", err)
	}
	if minor.CurrentAmount != 1000+workers*10 {
		t.Fatalf("expected %d, got %d", 1000+workers*10, minor.CurrentAmount)
	}
}

func TestWinFullPoolAndSeedFloor(t *testing.T) {
	svc, st, cleanup := openService(t)
	defer cleanup()
	ctx := context.Background()

	gameID := testutil.SeedGame(t, st, 10, 100000, store.JackpotMinor)
	userID := testutil.SeedUser(t, st, 0)
	if _, err := svc.Contribute(ctx, gameID, 5000); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	// nil amount awards the whole pool; the pool resets to its seed.
	res, err := svc.Win(ctx, store.JackpotMinor, gameID, userID, nil)
	if err != nil {
		t.Fatalf("win: %v", err)
	}
	if res.WinAmount != 1050 {
		t.Fatalf("expected full pool 1050, got %d", res.WinAmount)
	}
	if res.RemainingPool != 1000 {
		t.Fatalf("expected seed floor 1000, got %d", res.RemainingPool)
	}
	if res.WonAt.IsZero() {
		t.Fatal("expected win timestamp to be set")
	}

	// A partial win that would leave less than the seed still floors.
	if _, err := svc.Contribute(ctx, gameID, 3000); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	amount := int64(100)
	res, err = svc.Win(ctx, store.JackpotMinor, gameID, userID, &amount)
	if err != nil {
		t.Fatalf("partial win: %v", err)
	}
	if res.WinAmount != 100 || res.RemainingPool != 1000 {
		t.Fatalf("expected 100 won with pool floored at 1000, got %d / %d", res.WinAmount, res.RemainingPool)
	}
}

func TestWinValidation(t *testing.T) {
	svc, st, cleanup := openService(t)
	defer cleanup()
	ctx := context.Background()

	gameID := testutil.SeedGame(t, st, 10, 100000, store.JackpotMinor)
	userID := testutil.SeedUser(t, st, 0)

	tooBig := int64(1000000)
	if _, err := svc.Win(ctx, store.JackpotMinor, gameID, userID, &tooBig); !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
	zero := int64(0)
	if _, err := svc.Win(ctx, store.JackpotMinor, gameID, userID, &zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Win(ctx, store.JackpotType("MEGA"), gameID, userID, nil); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}

	pool, err := st.GetJackpotPoolByType(ctx, store.JackpotMinor)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if pool.CurrentAmount != 1000 || pool.TotalWins != 0 {
		t.Fatalf("failed wins must not touch the pool: %+v", pool)
	}
}

// Full-pool wins racing contributions: the win amount is validated
// against the locked row, so it can never exceed the pool's committed
// balance and the pool never settles below its seed.
func TestWinRacingContributions(t *testing.T) {
	svc, st, cleanup := openService(t)
	defer cleanup()
	ctx := context.Background()
	st.RetryMax = 30
	st.RetryBase = 2 * time.Millisecond

	gameID := testutil.SeedGame(t, st, 10, 100000, store.JackpotMinor)
	userID := testutil.SeedUser(t, st, 0)

	var wg sync.WaitGroup
	errs := make(chan error, 5*10+3)
	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if _, err := svc.Contribute(ctx, gameID, 1000); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Win(ctx, store.JackpotMinor, gameID, userID, nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("racing operation failed: %v", err)
	}

	pool, err := st.GetJackpotPoolByType(ctx, store.JackpotMinor)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if pool.CurrentAmount < pool.SeedAmount {
		t.Fatalf("pool settled below seed: %d < %d", pool.CurrentAmount, pool.SeedAmount)
	}
	if pool.TotalWins == 0 || pool.TotalContributions != 500 {
		t.Fatalf("bookkeeping wrong: wins %d, contributions %d", pool.TotalWins, pool.TotalContributions)
	}
}

func TestUpdateConfigPersistsAndValidates(t *testing.T) {
	svc, st, cleanup := openService(t)
	defer cleanup()
	ctx := context.Background()

	rate := 0.02
	seed := int64(2000)
	err := svc.UpdateConfig(ctx, map[store.JackpotType]ConfigUpdate{
		store.JackpotMinor: {SeedAmount: &seed, ContributionRate: &rate},
	})
	if err != nil {
		t.Fatalf("update config: %v", err)
	}

	pool, err := st.GetJackpotPoolByType(ctx, store.JackpotMinor)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if pool.SeedAmount != 2000 || pool.ContributionRate != 0.02 {
		t.Fatalf("config not persisted: %+v", pool)
	}

	badRate := 1.5
	err = svc.UpdateConfig(ctx, map[store.JackpotType]ConfigUpdate{
		store.JackpotMinor: {ContributionRate: &badRate},
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	err = svc.UpdateConfig(ctx, map[store.JackpotType]ConfigUpdate{
		store.JackpotType("MEGA"): {ContributionRate: &rate},
	})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
