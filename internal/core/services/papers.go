package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
	"github.com/quillhq/paperchat/internal/core/ports/driving"
	"github.com/quillhq/paperchat/internal/logger"
)

// Ensure PaperService implements the interface.
var _ driving.PaperService = (*PaperService)(nil)

// paperBucket is where raw paper bytes live in the byte store.
const paperBucket = "papers"

// PaperService manages papers and their processing lifecycle.
type PaperService struct {
	paperStore  driven.PaperStore
	statusStore driven.StatusStore
	chunkStore  driven.ChunkStore
	chatStore   driven.ChatStore
	byteStore   driven.ByteStore
	extractor   driven.TextExtractor
	ingestor    driving.Ingestor
}

// NewPaperService creates a new paper service.
func NewPaperService(
	paperStore driven.PaperStore,
	statusStore driven.StatusStore,
	chunkStore driven.ChunkStore,
	chatStore driven.ChatStore,
	byteStore driven.ByteStore,
	extractor driven.TextExtractor,
	ingestor driving.Ingestor,
) *PaperService {
	return &PaperService{
		paperStore:  paperStore,
		statusStore: statusStore,
		chunkStore:  chunkStore,
		chatStore:   chatStore,
		byteStore:   byteStore,
		extractor:   extractor,
		ingestor:    ingestor,
	}
}

// Upload registers a new paper from raw bytes.
func (s *PaperService) Upload(ctx context.Context, ownerID, title string, data []byte) (*domain.Paper, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: document bytes are required", domain.ErrInvalidInput)
	}

	paper := &domain.Paper{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Title:   title,
		Source:  domain.SourceUpload,
	}
	paper.StoragePath = paper.ID + "/original"

	if err := s.byteStore.Put(ctx, paperBucket, paper.StoragePath, data); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	if err := s.paperStore.Save(ctx, paper); err != nil {
		return nil, fmt.Errorf("save paper: %w", err)
	}
	if err := s.statusStore.Init(ctx, paper.ID); err != nil {
		return nil, fmt.Errorf("init status: %w", err)
	}

	logger.Info("Uploaded paper %s (%d bytes)", paper.ID, len(data))
	return paper, nil
}

// AddByURL registers a paper by URL. No bytes are fetched here; the
// paper stays pending until content arrives and Process runs.
func (s *PaperService) AddByURL(ctx context.Context, ownerID, title, rawURL string) (*domain.Paper, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid URL %q", domain.ErrInvalidInput, rawURL)
	}

	paper := &domain.Paper{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Source:      domain.SourceURL,
		StoragePath: rawURL,
	}

	if err := s.paperStore.Save(ctx, paper); err != nil {
		return nil, fmt.Errorf("save paper: %w", err)
	}
	if err := s.statusStore.Init(ctx, paper.ID); err != nil {
		return nil, fmt.Errorf("init status: %w", err)
	}

	logger.Info("Registered paper %s from URL", paper.ID)
	return paper, nil
}

// Process runs ingestion for a paper within the calling request.
func (s *PaperService) Process(ctx context.Context, ownerID, paperID string) error {
	paper, err := s.owned(ctx, ownerID, paperID)
	if err != nil {
		return err
	}

	if paper.Source == domain.SourceURL {
		return fmt.Errorf("%w: paper content has not been fetched yet", domain.ErrInvalidInput)
	}

	data, err := s.byteStore.Get(ctx, paperBucket, paper.StoragePath)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	logger.Stage("Extracting text from " + paper.Title)
	extracted, err := s.extractor.Extract(ctx, data)
	if err != nil {
		// Extraction failures are terminal for this run; record them so
		// Status shows why. Detach from ctx so a canceled request still
		// leaves the paper in a terminal state.
		record := context.WithoutCancel(ctx)
		if beginErr := s.statusStore.Begin(record, paperID); beginErr != nil {
			return fmt.Errorf("extract text: %w", err)
		}
		if failErr := s.statusStore.Fail(record, paperID, err.Error()); failErr != nil {
			logger.Warn("Recording extraction failure for paper %s: %v", paperID, failErr)
		}
		return fmt.Errorf("extract text: %w", err)
	}

	if extracted.PageCount > 0 && extracted.PageCount != paper.PageCount {
		paper.PageCount = extracted.PageCount
		if err := s.paperStore.Save(ctx, paper); err != nil {
			return fmt.Errorf("update page count: %w", err)
		}
	}

	if _, err := s.ingestor.Ingest(ctx, paperID, extracted.Text, extracted.PageCount); err != nil {
		return err
	}
	return nil
}

// Reprocess resets a terminal paper to pending and runs ingestion again.
func (s *PaperService) Reprocess(ctx context.Context, ownerID, paperID string) error {
	if _, err := s.owned(ctx, ownerID, paperID); err != nil {
		return err
	}
	if err := s.statusStore.Reset(ctx, paperID); err != nil {
		return fmt.Errorf("reset status: %w", err)
	}
	return s.Process(ctx, ownerID, paperID)
}

// Get retrieves an owned paper.
func (s *PaperService) Get(ctx context.Context, ownerID, paperID string) (*domain.Paper, error) {
	return s.owned(ctx, ownerID, paperID)
}

// List returns all papers owned by the caller.
func (s *PaperService) List(ctx context.Context, ownerID string) ([]domain.Paper, error) {
	papers, err := s.paperStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return papers, nil
}

// Status returns the processing status record for polling.
func (s *PaperService) Status(ctx context.Context, ownerID, paperID string) (*domain.ProcessingStatus, error) {
	if _, err := s.owned(ctx, ownerID, paperID); err != nil {
		return nil, err
	}
	status, err := s.statusStore.Get(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	return status, nil
}

// Delete removes a paper and everything hanging off it.
func (s *PaperService) Delete(ctx context.Context, ownerID, paperID string) error {
	paper, err := s.owned(ctx, ownerID, paperID)
	if err != nil {
		return err
	}

	// Explicit cascade keeps every store implementation honest, whether
	// or not it enforces foreign keys itself.
	sessions, err := s.chatStore.ListSessionsByPaper(ctx, paperID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, session := range sessions {
		if err := s.chatStore.DeleteSession(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	if err := s.chunkStore.DeleteFor(ctx, paperID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := s.statusStore.Delete(ctx, paperID); err != nil {
		return fmt.Errorf("delete status: %w", err)
	}

	if paper.Source == domain.SourceUpload && paper.StoragePath != "" {
		if err := s.byteStore.Delete(ctx, paperBucket, paper.StoragePath); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}

	if err := s.paperStore.Delete(ctx, paperID); err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}

	logger.Info("Deleted paper %s", paperID)
	return nil
}

// owned loads a paper and verifies ownership. Foreign papers look like
// missing papers.
func (s *PaperService) owned(ctx context.Context, ownerID, paperID string) (*domain.Paper, error) {
	paper, err := s.paperStore.Get(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}
	if paper.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return paper, nil
}
