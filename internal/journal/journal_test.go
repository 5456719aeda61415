package journal

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	p := NewPostgres(sqlx.NewDb(raw, "postgres"))
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p, mock
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	p, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lookups")).
		WithArgs(sqlmock.AnyArg(), int64(42), KindScore, "0xC", "", "", "", OutcomeOK, int64(15),
			time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := p.Record(context.Background(), Entry{
		ChatID:          42,
		Kind:            KindScore,
		ContractAddress: "0xC",
		Outcome:         OutcomeOK,
		DurationMS:      15,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWrapsErrors(t *testing.T) {
	p, mock := newMock(t)
	boom := errors.New("boom")
	mock.ExpectExec("INSERT INTO lookups").WillReturnError(boom)

	err := p.Record(context.Background(), Entry{ID: uuid.New(), ChatID: 1, Kind: KindPrice, Outcome: OutcomeFailed})
	require.ErrorIs(t, err, boom)
}

func TestRecentScansRows(t *testing.T) {
	p, mock := newMock(t)
	id := uuid.New()
	created := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "chat_id", "kind", "contract_address", "wallet_address", "token_id", "time_range", "outcome", "duration_ms", "created_at"}).
		AddRow(id.String(), int64(7), KindMarketTrend, "0xC", "", "", "7d", OutcomeOK, int64(120), created)
	mock.ExpectQuery("SELECT (.+) FROM lookups WHERE chat_id = \\$1").
		WithArgs(int64(7), 10).
		WillReturnRows(rows)

	got, err := p.Recent(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, id, got[0].ID)
	require.Equal(t, "7d", got[0].TimeRange)
	require.Equal(t, created, got[0].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNop(t *testing.T) {
	var j Journal = Nop{}
	require.NoError(t, j.Record(context.Background(), Entry{}))
	got, err := j.Recent(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Empty(t, got)
}
