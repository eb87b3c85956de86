package source

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

func TestPostgresLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"patient_id", "name", "agefactor", "WBC mean", "BP-mean", "updated_at"}).
		AddRow("p1", "Ada", 70.0, 12000.0, []byte("135.5"), time.Now()).
		AddRow("p2", "Ben", 40.0, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "admissions_scored"`)).WillReturnRows(rows)

	src := NewPostgres(db, "admissions_scored", zap.NewNop())
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	ada, err := tbl.Find("p1")
	require.NoError(t, err)
	assert.Equal(t, 135.5, ada.Value(admission.ColBP))
	assert.False(t, ada.Has("updated_at"))

	ben, err := tbl.Find("p2")
	require.NoError(t, err)
	assert.False(t, ben.Has(admission.ColWBC))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err = NewPostgres(db, "admissions_scored", zap.NewNop()).Load(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPostgresFingerprint(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*), COALESCE(max(updated_at)::text, '') FROM "admissions_scored"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "coalesce"}).AddRow(42, "2026-10-01 12:00:00+00"))

	fp, err := NewPostgres(db, "admissions_scored", zap.NewNop()).Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admissions_scored:42:2026-10-01 12:00:00+00", fp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"admissions_scored"`, quoteIdent("admissions_scored"))
	assert.Equal(t, `"bad""name"`, quoteIdent(`bad"name`))
}
