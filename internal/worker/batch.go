package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Analyzer produces a report for a single identifier.
type Analyzer interface {
	AnalyzeIdentifier(ctx context.Context, identifier string) (*model.Report, error)
}

// IdentifierJob represents one identifier to analyze
type IdentifierJob struct {
	Identifier string
	Analyzer   Analyzer
}

// Execute runs the analysis for the job's identifier
func (j *IdentifierJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeIdentifier(ctx, j.Identifier)
	if err != nil {
		return &IdentifierResult{
			Identifier: j.Identifier,
			Report:     nil,
			Error:      err,
		}
	}
	return &IdentifierResult{
		Identifier: j.Identifier,
		Report:     report,
		Error:      nil,
	}
}

// IdentifierResult represents the result of one identifier's analysis
type IdentifierResult struct {
	Identifier string
	Report     *model.Report
	Error      error
}

// GetError returns the error from the result
func (r *IdentifierResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple identifiers concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessIdentifiers analyzes multiple identifiers concurrently
func (b *BatchProcessor) ProcessIdentifiers(ctx context.Context, identifiers []string) []*IdentifierResult {
	if len(identifiers) == 0 {
		return []*IdentifierResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, id := range identifiers {
		pool.Submit(&IdentifierJob{
			Identifier: id,
			Analyzer:   b.analyzer,
		})
	}

	results := pool.Wait()

	out := make([]*IdentifierResult, len(results))
	for i, result := range results {
		out[i] = result.(*IdentifierResult)
	}

	return out
}

// ProcessFile reads identifiers from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*IdentifierResult, error) {
	identifiers, err := ReadIdentifiersFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read identifiers: %w", err)
	}

	return b.ProcessIdentifiers(ctx, identifiers), nil
}

// ReadIdentifiersFromFile reads identifiers from a file (one per line)
func ReadIdentifiersFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var identifiers []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			identifiers = append(identifiers, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return identifiers, nil
}
