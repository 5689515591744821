package db

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/toeirei/passforge/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// The known_hosts upsert and the integrate-restore inserts are raw SQL, and
// upsert/ignore syntax differs per engine. These helpers pick the right form;
// `key` needs quoting on MySQL where it is a reserved word.

func knownHostUpsertSQL(name dialect.Name) string {
	switch name {
	case dialect.PG:
		return "INSERT INTO known_hosts (hostname, key) VALUES (?, ?) ON CONFLICT (hostname) DO UPDATE SET key = EXCLUDED.key"
	case dialect.MySQL:
		return "INSERT INTO known_hosts (hostname, `key`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `key` = VALUES(`key`)"
	default:
		return "INSERT OR REPLACE INTO known_hosts (hostname, key) VALUES (?, ?)"
	}
}

func knownHostInsertSQL(name dialect.Name) string {
	if name == dialect.MySQL {
		return "INSERT INTO known_hosts (hostname, `key`) VALUES (?, ?)"
	}
	return "INSERT INTO known_hosts (hostname, key) VALUES (?, ?)"
}

// insertIgnoreSQL rewrites a plain `INSERT INTO` statement into the
// dialect's insert-if-absent form.
func insertIgnoreSQL(name dialect.Name, stmt string) string {
	switch name {
	case dialect.PG:
		return stmt + " ON CONFLICT DO NOTHING"
	case dialect.MySQL:
		return strings.Replace(stmt, "INSERT INTO", "INSERT IGNORE INTO", 1)
	default:
		return strings.Replace(stmt, "INSERT INTO", "INSERT OR IGNORE INTO", 1)
	}
}

// PresetModel maps the `presets` table for Bun queries.
type PresetModel struct {
	bun.BaseModel        `bun:"table:presets"`
	ID                   int    `bun:"id,pk,autoincrement"`
	Name                 string `bun:"name"`
	WordCount            int    `bun:"word_count"`
	Length               int    `bun:"length"`
	NumberLength         int    `bun:"number_length"`
	DelimiterLength      int    `bun:"delimiter_length"`
	Delimiter            string `bun:"delimiter"`
	IncludeNumbers       bool   `bun:"include_numbers"`
	IncludeDelimiters    bool   `bun:"include_delimiters"`
	RandomizeDelimiters  bool   `bun:"randomize_delimiters"`
	UseComplexDelimiters bool   `bun:"use_complex_delimiters"`
	Wordlist             string `bun:"wordlist"`
}

// WordlistModel maps the `wordlists` table.
type WordlistModel struct {
	bun.BaseModel `bun:"table:wordlists"`
	ID            int    `bun:"id,pk,autoincrement"`
	Name          string `bun:"name"`
	Path          string `bun:"path"`
	SourceURI     string `bun:"source_uri"`
	Checksum      string `bun:"checksum"`
	Words         int    `bun:"words"`
	FetchedAt     string `bun:"fetched_at"`
}

// KnownHostModel maps known_hosts.
type KnownHostModel struct {
	bun.BaseModel `bun:"table:known_hosts"`
	Hostname      string `bun:"hostname,pk"`
	Key           string `bun:"key"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---
func presetModelToModel(p PresetModel) model.Preset {
	return model.Preset{
		ID:                   p.ID,
		Name:                 p.Name,
		WordCount:            p.WordCount,
		Length:               p.Length,
		NumberLength:         p.NumberLength,
		DelimiterLength:      p.DelimiterLength,
		Delimiter:            p.Delimiter,
		IncludeNumbers:       p.IncludeNumbers,
		IncludeDelimiters:    p.IncludeDelimiters,
		RandomizeDelimiters:  p.RandomizeDelimiters,
		UseComplexDelimiters: p.UseComplexDelimiters,
		Wordlist:             p.Wordlist,
	}
}

func wordlistModelToModel(w WordlistModel) model.WordlistSource {
	return model.WordlistSource{
		ID:        w.ID,
		Name:      w.Name,
		Path:      w.Path,
		SourceURI: w.SourceURI,
		Checksum:  w.Checksum,
		Words:     w.Words,
		FetchedAt: w.FetchedAt,
	}
}

func auditLogModelToModel(a AuditLogModel) model.AuditLogEntry {
	return model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details}
}

// --- Preset helpers ---

// AddPresetBun inserts a preset and returns its ID.
func AddPresetBun(bdb *bun.DB, p model.Preset) (int, error) {
	ctx := context.Background()
	pm := &PresetModel{
		Name:                 p.Name,
		WordCount:            p.WordCount,
		Length:               p.Length,
		NumberLength:         p.NumberLength,
		DelimiterLength:      p.DelimiterLength,
		Delimiter:            p.Delimiter,
		IncludeNumbers:       p.IncludeNumbers,
		IncludeDelimiters:    p.IncludeDelimiters,
		RandomizeDelimiters:  p.RandomizeDelimiters,
		UseComplexDelimiters: p.UseComplexDelimiters,
		Wordlist:             p.Wordlist,
	}
	// Insert only the option columns so created_at keeps its DB default.
	if _, err := bdb.NewInsert().Model(pm).
		Column("name", "word_count", "length", "number_length", "delimiter_length", "delimiter",
			"include_numbers", "include_delimiters", "randomize_delimiters", "use_complex_delimiters", "wordlist").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return pm.ID, nil
}

// GetPresetByNameBun retrieves a preset by name. Returns (nil, nil) when absent.
func GetPresetByNameBun(bdb *bun.DB, name string) (*model.Preset, error) {
	ctx := context.Background()
	var pm PresetModel
	err := bdb.NewSelect().Model(&pm).Where("name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m := presetModelToModel(pm)
	return &m, nil
}

// GetAllPresetsBun returns all stored presets ordered by name.
func GetAllPresetsBun(bdb *bun.DB) ([]model.Preset, error) {
	ctx := context.Background()
	var pms []PresetModel
	if err := bdb.NewSelect().Model(&pms).OrderExpr("name").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Preset, 0, len(pms))
	for _, p := range pms {
		out = append(out, presetModelToModel(p))
	}
	return out, nil
}

// DeletePresetBun removes a preset by name.
func DeletePresetBun(bdb *bun.DB, name string) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, "DELETE FROM presets WHERE name = ?", name)
	return err
}

// RenamePresetBun changes a preset's name. Renaming onto an existing name
// surfaces as ErrDuplicate through the unique constraint.
func RenamePresetBun(bdb *bun.DB, oldName, newName string) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "UPDATE presets SET name = ? WHERE name = ?", newName, oldName)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("preset not found: %s", oldName)
	}
	return nil
}

// --- Wordlist helpers ---

// RegisterWordlistBun inserts a wordlist source and returns its ID.
func RegisterWordlistBun(bdb *bun.DB, w model.WordlistSource) (int, error) {
	ctx := context.Background()
	wm := &WordlistModel{
		Name:      w.Name,
		Path:      w.Path,
		SourceURI: w.SourceURI,
		Checksum:  w.Checksum,
		Words:     w.Words,
		FetchedAt: w.FetchedAt,
	}
	if _, err := bdb.NewInsert().Model(wm).
		Column("name", "path", "source_uri", "checksum", "words", "fetched_at").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return wm.ID, nil
}

// GetWordlistByNameBun retrieves a wordlist source by name. Returns (nil, nil) when absent.
func GetWordlistByNameBun(bdb *bun.DB, name string) (*model.WordlistSource, error) {
	ctx := context.Background()
	var wm WordlistModel
	err := bdb.NewSelect().Model(&wm).Where("name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m := wordlistModelToModel(wm)
	return &m, nil
}

// GetAllWordlistsBun returns all registered wordlist sources ordered by name.
func GetAllWordlistsBun(bdb *bun.DB) ([]model.WordlistSource, error) {
	ctx := context.Background()
	var wms []WordlistModel
	if err := bdb.NewSelect().Model(&wms).OrderExpr("name").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.WordlistSource, 0, len(wms))
	for _, w := range wms {
		out = append(out, wordlistModelToModel(w))
	}
	return out, nil
}

// DeleteWordlistBun removes a wordlist source by name.
func DeleteWordlistBun(bdb *bun.DB, name string) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, "DELETE FROM wordlists WHERE name = ?", name)
	return err
}

// RecordWordlistFetchBun stores the measurements taken after a successful fetch.
func RecordWordlistFetchBun(bdb *bun.DB, name, checksum string, words int, fetchedAt string) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "UPDATE wordlists SET checksum = ?, words = ?, fetched_at = ? WHERE name = ?", checksum, words, fetchedAt, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("wordlist not found: %s", name)
	}
	return nil
}

// --- Known hosts helpers ---
func GetKnownHostKeyBun(bdb *bun.DB, hostname string) (string, error) {
	ctx := context.Background()
	var kh KnownHostModel
	err := bdb.NewSelect().Model(&kh).Where("hostname = ?", hostname).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return kh.Key, nil
}

func AddKnownHostKeyBun(bdb *bun.DB, hostname, key string) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, knownHostUpsertSQL(bdb.Dialect().Name()), hostname, key)
	return MapDBError(err)
}

// --- Audit log helpers ---

// GetAllAuditLogEntriesBun retrieves audit log entries ordered by timestamp desc.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, auditLogModelToModel(a))
	}
	return out, nil
}

// GetRecentAuditLogEntriesBun retrieves the most recent limit entries.
func GetRecentAuditLogEntriesBun(bdb *bun.DB, limit int) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC, id DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, auditLogModelToModel(a))
	}
	return out, nil
}

// LogActionBun inserts an audit log entry with the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	_, err = ExecRaw(ctx, bdb, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", username, action, details)
	return MapDBError(err)
}

// --- Backup helpers ---

// ExportDataForBackupBun exports all tables' data into a model.BackupData using a Bun transaction.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{SchemaVersion: model.BackupSchemaVersion}

		// Presets
		var pms []PresetModel
		if err := tx.NewSelect().Model(&pms).Scan(ctx); err != nil {
			return err
		}
		for _, p := range pms {
			backup.Presets = append(backup.Presets, presetModelToModel(p))
		}

		// Wordlists
		var wms []WordlistModel
		if err := tx.NewSelect().Model(&wms).Scan(ctx); err != nil {
			return err
		}
		for _, w := range wms {
			backup.Wordlists = append(backup.Wordlists, wordlistModelToModel(w))
		}

		// Known hosts
		var khs []KnownHostModel
		if err := tx.NewSelect().Model(&khs).Scan(ctx); err != nil {
			return err
		}
		for _, k := range khs {
			backup.KnownHosts = append(backup.KnownHosts, model.KnownHost{Hostname: k.Hostname, Key: k.Key})
		}

		// Audit log
		var als []AuditLogModel
		if err := tx.NewSelect().Model(&als).Scan(ctx); err != nil {
			return err
		}
		for _, a := range als {
			backup.AuditLogEntries = append(backup.AuditLogEntries, auditLogModelToModel(a))
		}

		return nil
	})
	return backup, err
}

// ImportDataFromBackupBun performs a full wipe-and-replace using a Bun transaction.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		// Wipe tables
		tables := []string{"audit_log", "known_hosts", "wordlists", "presets"}
		for _, t := range tables {
			if _, err := ExecRaw(ctx, tx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
				return err
			}
		}

		// Presets
		for _, p := range backup.Presets {
			if _, err := ExecRaw(ctx, tx,
				"INSERT INTO presets (id, name, word_count, length, number_length, delimiter_length, delimiter, include_numbers, include_delimiters, randomize_delimiters, use_complex_delimiters, wordlist) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				p.ID, p.Name, p.WordCount, p.Length, p.NumberLength, p.DelimiterLength, p.Delimiter,
				p.IncludeNumbers, p.IncludeDelimiters, p.RandomizeDelimiters, p.UseComplexDelimiters, p.Wordlist); err != nil {
				return MapDBError(err)
			}
		}
		// Wordlists
		for _, w := range backup.Wordlists {
			if _, err := ExecRaw(ctx, tx,
				"INSERT INTO wordlists (id, name, path, source_uri, checksum, words, fetched_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				w.ID, w.Name, w.Path, w.SourceURI, w.Checksum, w.Words, w.FetchedAt); err != nil {
				return MapDBError(err)
			}
		}
		// KnownHosts
		for _, kh := range backup.KnownHosts {
			if _, err := ExecRaw(ctx, tx, knownHostInsertSQL(bdb.Dialect().Name()), kh.Hostname, kh.Key); err != nil {
				return MapDBError(err)
			}
		}
		// AuditLog: convert RFC3339 timestamps to time.Time when possible so MySQL accepts them.
		for _, ale := range backup.AuditLogEntries {
			var ts interface{} = ale.Timestamp
			if ale.Timestamp != "" {
				if parsed, err := time.Parse(time.RFC3339, ale.Timestamp); err == nil {
					ts = parsed
				} else {
					// Fallback: convert 'T' separator to space and strip trailing 'Z' if present.
					s := ale.Timestamp
					s = strings.Replace(s, "T", " ", 1)
					s = strings.TrimSuffix(s, "Z")
					ts = s
				}
			}
			if _, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (id, timestamp, username, action, details) VALUES (?, ?, ?, ?, ?)", ale.ID, ts, ale.Username, ale.Action, ale.Details); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}

// IntegrateDataFromBackupBun performs a non-destructive restore with
// insert-if-absent semantics. Rows whose unique keys collide with existing
// data are left untouched; the audit trail is never merged to avoid
// duplicating history.
func IntegrateDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	dname := bdb.Dialect().Name()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, p := range backup.Presets {
			if _, err := ExecRaw(ctx, tx,
				insertIgnoreSQL(dname, "INSERT INTO presets (name, word_count, length, number_length, delimiter_length, delimiter, include_numbers, include_delimiters, randomize_delimiters, use_complex_delimiters, wordlist) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
				p.Name, p.WordCount, p.Length, p.NumberLength, p.DelimiterLength, p.Delimiter,
				p.IncludeNumbers, p.IncludeDelimiters, p.RandomizeDelimiters, p.UseComplexDelimiters, p.Wordlist); err != nil {
				return err
			}
		}
		for _, w := range backup.Wordlists {
			if _, err := ExecRaw(ctx, tx,
				insertIgnoreSQL(dname, "INSERT INTO wordlists (name, path, source_uri, checksum, words, fetched_at) VALUES (?, ?, ?, ?, ?, ?)"),
				w.Name, w.Path, w.SourceURI, w.Checksum, w.Words, w.FetchedAt); err != nil {
				return err
			}
		}
		for _, kh := range backup.KnownHosts {
			if _, err := ExecRaw(ctx, tx, insertIgnoreSQL(dname, knownHostInsertSQL(dname)), kh.Hostname, kh.Key); err != nil {
				return err
			}
		}
		return nil
	})
}
