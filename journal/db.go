package journal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/revscan/shared"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createSignalTableSQL = "CREATE TABLE IF NOT EXISTS signal (id TEXT PRIMARY KEY, market TEXT, timeframe TEXT, pattern INTEGER, direction INTEGER, price REAL, rsi REAL, lastvolume REAL, averagevolume REAL, candletime INTEGER, createdon INTEGER)"
	createMetadataSQL    = "CREATE TABLE IF NOT EXISTS metadata (id TEXT PRIMARY KEY, total INTEGER, hammers INTEGER, shootingstars INTEGER, createdon INTEGER)"
	persistSignalSQL     = "INSERT INTO signal(id, market, timeframe, pattern, direction, price, rsi, lastvolume, averagevolume, candletime, createdon) VALUES(?,?,?,?,?,?,?,?,?,?,?)"
	findMetadataSQL      = "SELECT * FROM metadata where id = ?"
	updateMetadataSQL    = "UPDATE metadata SET total = total + 1, hammers = hammers + ?, shootingstars = shootingstars + ? WHERE id = ?"
	persistMetadataSQL   = "INSERT INTO metadata(id, total, hammers, shootingstars, createdon) VALUES(?,?,?,?,?)"
)

// SignalStorer defines the requirements for storing emitted signals.
type SignalStorer interface {
	// PersistSignal stores the provided signal to the database.
	PersistSignal(ctx context.Context, signal *shared.Signal) error
}

// StoreConfig is the configuration for the signal store.
type StoreConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the store logger.
	Logger *zerolog.Logger
}

// Store represents the signal history database connection.
type Store struct {
	cfg    *StoreConfig
	client *rqlitehttp.Client
}

// Ensure the store implements the SignalStorer interface.
var _ SignalStorer = (*Store)(nil)

// NewStore initializes a new signal store connection.
func NewStore(ctx context.Context, cfg *StoreConfig) (*Store, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating store client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	store := &Store{
		cfg:    cfg,
		client: client,
	}

	err = store.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping store: %w", err)
	}

	return store, nil
}

// bootstrap initializes the store tables.
func (s *Store) bootstrap(ctx context.Context) error {
	_, err := s.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createSignalTableSQL},
		{SQL: createMetadataSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// generateMetadataID generates deterministic ids for metadata using the
// current month, week and market.
func generateMetadataID(currentTime time.Time, market string) string {
	month := currentTime.Month().String()
	week := currentTime.Day() / 7

	id := fmt.Sprintf("%s-Week-%d-%s", month, week, market)
	return id
}

// PersistSignal stores the provided signal to the database and updates the
// weekly pattern counters for its market.
func (s *Store) PersistSignal(ctx context.Context, signal *shared.Signal) error {
	_, err := s.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: persistSignalSQL,
			PositionalParams: []any{signal.ID, signal.Market, signal.Timeframe.String(),
				signal.Pattern, signal.Direction, signal.Price, signal.RSI, signal.LastVolume,
				signal.AverageVolume, signal.CandleTime.Unix(), signal.CreatedOn.Unix()},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	var hammers, shootingStars int
	switch signal.Pattern {
	case shared.Hammer:
		hammers++
	case shared.ShootingStar:
		shootingStars++
	default:
		s.cfg.Logger.Error().Msgf("unexpected signal pattern for metadata calculations: %s",
			spew.Sdump(signal))
	}

	id := generateMetadataID(signal.CreatedOn, signal.Market)
	resp, err := s.client.QuerySingle(ctx, findMetadataSQL, id)
	if err != nil {
		return err
	}

	exists := len(resp.GetQueryResultsAssoc()) > 0
	switch {
	case exists:
		resp, err := s.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              updateMetadataSQL,
				PositionalParams: []any{hammers, shootingStars, id},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("updating metadata %s: %d -> %s", id, idx, errStr)
		}
	default:
		resp, err := s.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              persistMetadataSQL,
				PositionalParams: []any{id, 1, hammers, shootingStars, signal.CreatedOn.Unix()},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("persisting metadata %s: %d -> %s", id, idx, errStr)
		}
	}

	return nil
}
