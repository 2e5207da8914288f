package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"BrandRadar/internal/domain"
)

func TestAlreadySeen(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"dedupe_key"}).AddRow("news:abc")
	mock.ExpectQuery("SELECT dedupe_key FROM processed_mentions WHERE dedupe_key = ANY").
		WillReturnRows(rows)

	store := NewPostgresStore(db)
	seen, err := store.AlreadySeen(context.Background(), []string{"news:abc", "news:def"})
	if err != nil {
		t.Fatalf("AlreadySeen error: %v", err)
	}
	if !seen["news:abc"] || seen["news:def"] {
		t.Fatalf("unexpected seen map: %v", seen)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAlreadySeenEmptyKeysSkipsQuery(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStore(db)
	seen, err := store.AlreadySeen(context.Background(), nil)
	if err != nil {
		t.Fatalf("AlreadySeen error: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("expected empty map, got %v", seen)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query should have run: %v", err)
	}
}

func TestMarkSeenBatchInsert(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO processed_mentions \\(dedupe_key,mention_id,source,seen_at\\) VALUES \\(\\$1,\\$2,\\$3,\\$4\\),\\(\\$5,\\$6,\\$7,\\$8\\) ON CONFLICT \\(dedupe_key\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 2))

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mentions := []domain.Mention{
		{ID: "m1", Source: "news", RawText: "first", Timestamp: ts},
		{ID: "m2", Source: "news", RawText: "second", Timestamp: ts},
	}

	store := NewPostgresStore(db)
	if err := store.MarkSeen(context.Background(), mentions); err != nil {
		t.Fatalf("MarkSeen error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveClassified(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO classified_mentions").
		WithArgs("run-1", "m1", "news", "text", "", sqlmock.AnyArg(),
			"measured", "positive", 0.8, "lexicon-v1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgresStore(db)
	err = store.SaveClassified(context.Background(), "run-1", []domain.ClassifiedMention{{
		Mention: domain.Mention{
			ID:         "m1",
			Source:     "news",
			RawText:    "text",
			Provenance: domain.ProvenanceMeasured,
		},
		Polarity:     domain.PolarityPositive,
		Confidence:   0.8,
		ModelVersion: "lexicon-v1",
	}})
	if err != nil {
		t.Fatalf("SaveClassified error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAndLoadReport(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO reports").
		WithArgs("run-1", "NVIDIA", sqlmock.AnyArg(), 60, 20, 20, 10, 0, "# report body").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT body_markdown FROM reports WHERE run_id = \\$1").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"body_markdown"}).AddRow("# report body"))

	store := NewPostgresStore(db)
	rpt := domain.Report{
		RunID:         "run-1",
		Brand:         "NVIDIA",
		Date:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Distribution:  domain.SentimentDistribution{PositivePct: 60, NegativePct: 20, NeutralPct: 20},
		MeasuredTotal: 10,
	}
	if err := store.SaveReport(context.Background(), rpt, "# report body"); err != nil {
		t.Fatalf("SaveReport error: %v", err)
	}

	body, err := store.ReportMarkdown(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ReportMarkdown error: %v", err)
	}
	if body != "# report body" {
		t.Fatalf("unexpected body: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNilDBIsInert(t *testing.T) {
	t.Parallel()

	store := NewPostgresStore(nil)
	ctx := context.Background()

	if err := store.MarkSeen(ctx, []domain.Mention{{ID: "m1", Source: "s", RawText: "t"}}); err != nil {
		t.Fatalf("MarkSeen on nil db: %v", err)
	}
	seen, err := store.AlreadySeen(ctx, []string{"k"})
	if err != nil || len(seen) != 0 {
		t.Fatalf("AlreadySeen on nil db: %v %v", seen, err)
	}
	if err := store.SaveReport(ctx, domain.Report{}, ""); err != nil {
		t.Fatalf("SaveReport on nil db: %v", err)
	}
	if _, err := store.ReportMarkdown(ctx, "run"); err == nil {
		t.Fatal("ReportMarkdown on nil db must fail")
	}
}
