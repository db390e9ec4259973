package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"vrsurvey/adapters/excel"
	"vrsurvey/adapters/postgres"
	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/internal"
	"vrsurvey/internal/migration"
	"vrsurvey/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// migrate brings the schema up to date and then imports a directory of
// survey exports (.xlsx, .csv) and saved JSON reports into the database.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [import_dir]")
	}

	databaseURL := os.Args[1]
	logger := internal.NewDefaultLogger()

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	runner := migration.NewRunner(logger)
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}
	importDir := os.Args[2]

	respondentRepo := postgres.NewRespondentRepository(db)
	runRepo := postgres.NewRunRepository(db)

	files, err := findImportFiles(importDir)
	if err != nil {
		log.Fatalf("Failed to find import files: %v", err)
	}
	log.Printf("Found %d files to import from %s", len(files), importDir)

	imported := 0
	skipped := 0

	for _, file := range files {
		var err error
		switch strings.ToLower(filepath.Ext(file)) {
		case ".json":
			err = importReport(ctx, runRepo, file)
		default:
			var n int
			n, err = importRespondents(ctx, respondentRepo, file)
			if err == nil {
				log.Printf("Imported %d respondents from %s", n, filepath.Base(file))
			}
		}
		if err != nil {
			log.Printf("Failed to import %s: %v", file, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

func findImportFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".xlsx", ".csv":
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func importRespondents(ctx context.Context, repo ports.RespondentRepository, file string) (int, error) {
	respondents, err := excel.NewDataReader(file).Load(ctx)
	if err != nil {
		return 0, err
	}
	for i := range respondents {
		// The database assigns ids; the file's own ids are only row labels.
		respondents[i].ID = 0
		if _, err := repo.InsertRespondent(ctx, &respondents[i]); err != nil {
			return i, err
		}
	}
	return len(respondents), nil
}

func importReport(ctx context.Context, repo ports.RunRepository, file string) error {
	report, err := loadReportFromFile(file)
	if err != nil {
		return err
	}

	// Reports without an id get a deterministic one so reimporting is idempotent.
	if report.RunID == "" {
		report.RunID = core.RunID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(file)).String())
	}

	if err := repo.SaveRun(ctx, report); err != nil {
		return err
	}
	log.Printf("Imported run %s from %s", report.RunID, filepath.Base(file))
	return nil
}

func loadReportFromFile(filePath string) (*stats.Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var report stats.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
