package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"placsp/internal"
	"placsp/internal/config"
	"placsp/internal/feed"
	"placsp/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

type RunResult struct {
	Folders      int
	Files        int
	SkippedFiles int
	Extracted    int
	EntryErrors  int
	Contracts    int
}

// Run executes one full ETL pass: walk the year folders under RawDataDir,
// extract every document, normalize, resolve master entities and insert the
// contract facts. Unreadable documents are skipped with a diagnostic; a
// store failure aborts the run.
func (s *Service) Run() (RunResult, error) {
	start := time.Now()

	records, result, err := s.collect()
	if err != nil {
		return result, err
	}

	readDone := time.Now()

	contracts := Normalize(records)

	contracts, err = ResolveCompanies(s.db, contracts)
	if err != nil {
		return result, fmt.Errorf("resolve companies: %w", err)
	}
	contracts, err = ResolveBodies(s.db, contracts)
	if err != nil {
		return result, fmt.Errorf("resolve bodies: %w", err)
	}

	if err := s.db.InsertContracts(contracts); err != nil {
		return result, fmt.Errorf("insert contracts: %w", err)
	}
	result.Contracts = len(contracts)

	_ = s.db.InsertRun(uuid.NewString(),
		map[string]float64{
			"readMs":  float64(readDone.Sub(start).Milliseconds()),
			"totalMs": float64(time.Since(start).Milliseconds()),
		},
		map[string]int{
			"files":       result.Files,
			"skipped":     result.SkippedFiles,
			"extracted":   result.Extracted,
			"entryErrors": result.EntryErrors,
			"contracts":   result.Contracts,
		})

	return result, nil
}

func (s *Service) collect() ([]internal.Record, RunResult, error) {
	var result RunResult

	folders, err := os.ReadDir(s.cfg.RawDataDir)
	if err != nil {
		return nil, result, fmt.Errorf("read input dir: %w", err)
	}

	var records []internal.Record
	for _, folder := range folders {
		if !folder.IsDir() {
			continue
		}
		result.Folders++

		files, err := filepath.Glob(filepath.Join(s.cfg.RawDataDir, folder.Name(), "*.atom"))
		if err != nil {
			return nil, result, err
		}

		for _, file := range files {
			result.Files++
			recs, err := feed.ReadFile(file)
			if err != nil {
				result.SkippedFiles++
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", file, err)
				continue
			}
			for _, r := range recs {
				if r.Err != nil {
					result.EntryErrors++
					fmt.Fprintf(os.Stderr, "entry %s in %s: %s\n", r.Err.EntryID, file, r.Err.Message)
				}
			}
			records = append(records, recs...)
			result.Extracted += len(recs)
		}
	}

	return records, result, nil
}
