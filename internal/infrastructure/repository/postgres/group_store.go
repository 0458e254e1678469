package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// GroupStore persists the per-document semantic group record. A record is
// only served back when its schema version matches the current one and its
// group list deserializes cleanly; anything else reads as absent, which
// forces regeneration instead of serving stale or half-valid groups.
type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

func (s *GroupStore) SaveRecord(ctx context.Context, record *domain.GroupRecord) error {
	groupsJSON, err := json.Marshal(record.Groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO semantic_groups (document_id, schema_version, content_hash, target_chars, min_chars, max_chars, groups, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (document_id) DO UPDATE SET
	schema_version = EXCLUDED.schema_version,
	content_hash = EXCLUDED.content_hash,
	target_chars = EXCLUDED.target_chars,
	min_chars = EXCLUDED.min_chars,
	max_chars = EXCLUDED.max_chars,
	groups = EXCLUDED.groups,
	created_at = EXCLUDED.created_at
`,
		record.DocumentID, record.SchemaVersion, record.ContentHash,
		record.Aggregation.TargetChars, record.Aggregation.MinChars, record.Aggregation.MaxChars,
		groupsJSON, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert group record: %w", err)
	}
	return nil
}

func (s *GroupStore) LoadRecord(ctx context.Context, documentID string) (*domain.GroupRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT schema_version, content_hash, target_chars, min_chars, max_chars, groups, created_at
FROM semantic_groups
WHERE document_id = $1
`, documentID)

	record := domain.GroupRecord{DocumentID: documentID}
	var groupsRaw []byte

	err := row.Scan(
		&record.SchemaVersion, &record.ContentHash,
		&record.Aggregation.TargetChars, &record.Aggregation.MinChars, &record.Aggregation.MaxChars,
		&groupsRaw, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrGroupsNotAvailable, "load group record", fmt.Errorf("no record for document %s", documentID))
		}
		return nil, fmt.Errorf("scan group record: %w", err)
	}

	if record.SchemaVersion != domain.GroupSchemaVersion {
		return nil, domain.WrapError(domain.ErrGroupsNotAvailable, "load group record",
			fmt.Errorf("schema version %d, want %d", record.SchemaVersion, domain.GroupSchemaVersion))
	}

	if err := json.Unmarshal(groupsRaw, &record.Groups); err != nil {
		return nil, domain.WrapError(domain.ErrGroupsNotAvailable, "load group record", fmt.Errorf("unmarshal groups: %w", err))
	}
	if err := validateGroups(record.Groups); err != nil {
		return nil, domain.WrapError(domain.ErrGroupsNotAvailable, "load group record", err)
	}

	return &record, nil
}

func validateGroups(groups []domain.SemanticGroup) error {
	if len(groups) == 0 {
		return fmt.Errorf("empty group list")
	}
	for i, g := range groups {
		if g.GroupID == "" {
			return fmt.Errorf("group %d: missing id", i)
		}
		if g.FullText == "" {
			return fmt.Errorf("group %d: missing full text", i)
		}
		if len(g.ChunkIndices) == 0 {
			return fmt.Errorf("group %d: no chunk indices", i)
		}
	}
	return nil
}
