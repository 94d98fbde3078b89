package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quillhq/paperchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// paper, chunk, status and chat store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.paperchat/data/paperchat.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".paperchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "paperchat.db")

	// Open database with WAL mode for better concurrency. Foreign keys
	// go in the DSN so every pooled connection enforces them.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PaperStore returns a PaperStore interface backed by this store.
func (s *Store) PaperStore() driven.PaperStore {
	return &paperStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// StatusStore returns a StatusStore interface backed by this store.
func (s *Store) StatusStore() driven.StatusStore {
	return &statusStore{store: s}
}

// ChatStore returns a ChatStore interface backed by this store.
func (s *Store) ChatStore() driven.ChatStore {
	return &chatStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Paper Store ====================

// paperStore implements driven.PaperStore.
type paperStore struct {
	store *Store
}

var _ driven.PaperStore = (*paperStore)(nil)

// Save stores or updates a paper.
func (s *paperStore) Save(ctx context.Context, paper *domain.Paper) error {
	now := time.Now().UTC()
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = now
	}
	paper.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO papers (id, owner_id, title, source, storage_path, page_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			title = excluded.title,
			source = excluded.source,
			storage_path = excluded.storage_path,
			page_count = excluded.page_count,
			updated_at = excluded.updated_at
	`, paper.ID, paper.OwnerID, paper.Title, string(paper.Source),
		nullString(paper.StoragePath), paper.PageCount, paper.CreatedAt, paper.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving paper: %w", err)
	}
	return nil
}

// Get retrieves a paper by ID.
func (s *paperStore) Get(ctx context.Context, id string) (*domain.Paper, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, source, storage_path, page_count, created_at, updated_at
		FROM papers WHERE id = ?
	`, id)

	return scanPaper(row)
}

// ListByOwner returns all papers owned by a user.
func (s *paperStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Paper, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, source, storage_path, page_count, created_at, updated_at
		FROM papers WHERE owner_id = ?
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []domain.Paper //nolint:prealloc // size unknown from query
	for rows.Next() {
		paper, err := scanPaperRows(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *paper)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}

	return papers, nil
}

// Delete removes a paper. Foreign keys cascade to chunks, status,
// sessions, messages and citations.
func (s *paperStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// InsertMany stores all chunks for one paper in a single transaction.
func (s *chunkStore) InsertMany(ctx context.Context, paperID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, paper_id, page_number, content, embedding, chunk_index, chunk_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, paperID, chunk.PageNumber,
			chunk.Content, embeddingBlob, chunk.Index, chunk.Type); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// NearestTo ranks the paper's chunks by cosine similarity to the query
// vector. Ranking happens in Go over decoded embedding blobs; scanning
// in chunk_index order makes the descending stable sort break ties by
// lower index.
func (s *chunkStore) NearestTo(ctx context.Context, paperID string, query []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, paper_id, page_number, content, embedding, chunk_index, chunk_type
		FROM chunks WHERE paper_id = ?
		ORDER BY chunk_index
	`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		if len(chunk.Embedding) == 0 {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: *chunk,
			Score: cosineSimilarity(query, chunk.Embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// CountFor returns the number of stored chunks for a paper.
func (s *chunkStore) CountFor(ctx context.Context, paperID string) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE paper_id = ?", paperID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// DeleteFor removes all chunks for a paper.
func (s *chunkStore) DeleteFor(ctx context.Context, paperID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE paper_id = ?", paperID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// ==================== Status Store ====================

// statusStore implements driven.StatusStore. Transitions are single
// UPDATE statements guarded by the current status, so concurrent
// ingestion attempts resolve in the database rather than racing.
type statusStore struct {
	store *Store
}

var _ driven.StatusStore = (*statusStore)(nil)

// Init creates the pending status record for a new paper.
func (s *statusStore) Init(ctx context.Context, paperID string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO processing_statuses (paper_id, status) VALUES (?, ?)
	`, paperID, string(domain.StatePending))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "PRIMARY") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("initialising status: %w", err)
	}
	return nil
}

// Get retrieves the status record for a paper.
func (s *statusStore) Get(ctx context.Context, paperID string) (*domain.ProcessingStatus, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT paper_id, status, started_at, completed_at, chunks_created, error
		FROM processing_statuses WHERE paper_id = ?
	`, paperID)

	var status domain.ProcessingStatus
	var state string
	var startedAt, completedAt sql.NullTime
	var errMsg sql.NullString
	if err := row.Scan(&status.PaperID, &state, &startedAt, &completedAt,
		&status.ChunksCreated, &errMsg); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning status: %w", err)
	}

	status.State = domain.ProcessingState(state)
	if startedAt.Valid {
		t := startedAt.Time
		status.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		status.CompletedAt = &t
	}
	status.Error = errMsg.String

	return &status, nil
}

// Begin transitions pending -> processing.
func (s *statusStore) Begin(ctx context.Context, paperID string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE processing_statuses
		SET status = ?, started_at = ?, completed_at = NULL, chunks_created = 0, error = NULL
		WHERE paper_id = ? AND status = ?
	`, string(domain.StateProcessing), time.Now().UTC(), paperID, string(domain.StatePending))
	if err != nil {
		return fmt.Errorf("beginning processing: %w", err)
	}
	return s.checkTransition(ctx, res, paperID)
}

// Complete transitions processing -> completed.
func (s *statusStore) Complete(ctx context.Context, paperID string, chunksCreated int) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE processing_statuses
		SET status = ?, completed_at = ?, chunks_created = ?, error = NULL
		WHERE paper_id = ? AND status = ?
	`, string(domain.StateCompleted), time.Now().UTC(), chunksCreated,
		paperID, string(domain.StateProcessing))
	if err != nil {
		return fmt.Errorf("completing processing: %w", err)
	}
	return s.checkTransition(ctx, res, paperID)
}

// Fail transitions processing -> failed with a message.
func (s *statusStore) Fail(ctx context.Context, paperID string, message string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE processing_statuses
		SET status = ?, completed_at = ?, error = ?
		WHERE paper_id = ? AND status = ?
	`, string(domain.StateFailed), time.Now().UTC(), message,
		paperID, string(domain.StateProcessing))
	if err != nil {
		return fmt.Errorf("failing processing: %w", err)
	}
	return s.checkTransition(ctx, res, paperID)
}

// Reset transitions a terminal state back to pending.
func (s *statusStore) Reset(ctx context.Context, paperID string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE processing_statuses
		SET status = ?, started_at = NULL, completed_at = NULL, chunks_created = 0, error = NULL
		WHERE paper_id = ? AND status IN (?, ?)
	`, string(domain.StatePending), paperID,
		string(domain.StateCompleted), string(domain.StateFailed))
	if err != nil {
		return fmt.Errorf("resetting status: %w", err)
	}
	return s.checkTransition(ctx, res, paperID)
}

// Delete removes the status record for a paper.
func (s *statusStore) Delete(ctx context.Context, paperID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM processing_statuses WHERE paper_id = ?", paperID)
	if err != nil {
		return fmt.Errorf("deleting status: %w", err)
	}
	return nil
}

// checkTransition maps a zero-row guarded UPDATE to the right domain
// error by inspecting the current state.
func (s *statusStore) checkTransition(ctx context.Context, res sql.Result, paperID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking transition: %w", err)
	}
	if affected > 0 {
		return nil
	}

	current, err := s.Get(ctx, paperID)
	if err != nil {
		return err
	}
	if current.State == domain.StateProcessing {
		return domain.ErrIngestionInProgress
	}
	return domain.ErrInvalidTransition
}

// ==================== Chat Store ====================

// chatStore implements driven.ChatStore.
type chatStore struct {
	store *Store
}

var _ driven.ChatStore = (*chatStore)(nil)

// SaveSession stores or updates a session.
func (s *chatStore) SaveSession(ctx context.Context, session *domain.ChatSession) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, owner_id, paper_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at
	`, session.ID, session.OwnerID, session.PaperID, session.Title,
		session.CreatedAt, session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *chatStore) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, paper_id, title, created_at, updated_at
		FROM chat_sessions WHERE id = ?
	`, id)

	var session domain.ChatSession
	if err := row.Scan(&session.ID, &session.OwnerID, &session.PaperID,
		&session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &session, nil
}

// ListSessionsByPaper returns all sessions over a paper.
func (s *chatStore) ListSessionsByPaper(ctx context.Context, paperID string) ([]domain.ChatSession, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, paper_id, title, created_at, updated_at
		FROM chat_sessions WHERE paper_id = ?
		ORDER BY created_at
	`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ChatSession //nolint:prealloc // size unknown from query
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(&session.ID, &session.OwnerID, &session.PaperID,
			&session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// DeleteSession removes a session. Foreign keys cascade to messages
// and citations.
func (s *chatStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chat_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// AppendMessage appends a message and its citations in one transaction.
func (s *chatStore) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt); err != nil {
		return fmt.Errorf("saving message: %w", err)
	}

	for _, citation := range msg.Citations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO citations (id, message_id, chunk_id, score, page_number, excerpt)
			VALUES (?, ?, ?, ?, ?, ?)
		`, citation.ID, msg.ID, citation.ChunkID, citation.Score,
			citation.PageNumber, nullString(citation.Excerpt)); err != nil {
			return fmt.Errorf("saving citation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListMessages returns a session's messages ordered by creation time,
// ties broken by insertion order (rowid).
func (s *chatStore) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY created_at, rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role,
			&msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	for i := range msgs {
		citations, err := s.listCitations(ctx, msgs[i].ID)
		if err != nil {
			return nil, err
		}
		msgs[i].Citations = citations
	}

	return msgs, nil
}

// listCitations returns the citations attached to one message.
func (s *chatStore) listCitations(ctx context.Context, messageID string) ([]domain.Citation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, message_id, chunk_id, score, page_number, excerpt
		FROM citations WHERE message_id = ?
		ORDER BY score DESC
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var citations []domain.Citation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var citation domain.Citation
		var excerpt sql.NullString
		if err := rows.Scan(&citation.ID, &citation.MessageID, &citation.ChunkID,
			&citation.Score, &citation.PageNumber, &excerpt); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		citation.Excerpt = excerpt.String
		citations = append(citations, citation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating citations: %w", err)
	}

	return citations, nil
}

// ==================== Helpers ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// scanPaper scans a single paper row.
func scanPaper(row *sql.Row) (*domain.Paper, error) {
	var paper domain.Paper
	var source string
	var storagePath sql.NullString

	if err := row.Scan(&paper.ID, &paper.OwnerID, &paper.Title, &source,
		&storagePath, &paper.PageCount, &paper.CreatedAt, &paper.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	paper.Source = domain.SourceKind(source)
	paper.StoragePath = storagePath.String
	return &paper, nil
}

// scanPaperRows scans a paper from a multi-row result.
func scanPaperRows(rows *sql.Rows) (*domain.Paper, error) {
	var paper domain.Paper
	var source string
	var storagePath sql.NullString

	if err := rows.Scan(&paper.ID, &paper.OwnerID, &paper.Title, &source,
		&storagePath, &paper.PageCount, &paper.CreatedAt, &paper.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	paper.Source = domain.SourceKind(source)
	paper.StoragePath = storagePath.String
	return &paper, nil
}

// scanChunk scans a chunk from a multi-row result.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte

	if err := rows.Scan(&chunk.ID, &chunk.PaperID, &chunk.PageNumber,
		&chunk.Content, &embeddingBlob, &chunk.Index, &chunk.Type); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &chunk, nil
}

// nullString returns a NULL-able value for empty strings.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
