package store

// schemaSQL creates the current layout on a fresh database.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS goals (
    id             TEXT PRIMARY KEY,
    position       INTEGER NOT NULL,
    title          TEXT NOT NULL,
    target_value   REAL NOT NULL,
    tracking_type  TEXT NOT NULL,
    start_date     TEXT NOT NULL,
    end_date       TEXT NOT NULL,
    progress_log   TEXT NOT NULL DEFAULT '{}',
    notes          TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_goals_position ON goals(position);
`

// schemaV1SQL is the layout written before notes were introduced.
const schemaV1SQL = `
CREATE TABLE IF NOT EXISTS goals (
    id             TEXT PRIMARY KEY,
    position       INTEGER NOT NULL,
    title          TEXT NOT NULL,
    target_value   REAL NOT NULL,
    tracking_type  TEXT NOT NULL,
    start_date     TEXT NOT NULL,
    end_date       TEXT NOT NULL,
    progress_log   TEXT NOT NULL DEFAULT '{}'
);
`

const metaSQL = `
CREATE TABLE IF NOT EXISTS store_meta (
    key    TEXT PRIMARY KEY,
    value  TEXT NOT NULL
);

INSERT OR IGNORE INTO store_meta (key, value) VALUES ('revision', '0');
`

const addNotesSQL = `ALTER TABLE goals ADD COLUMN notes TEXT NOT NULL DEFAULT '{}'`
