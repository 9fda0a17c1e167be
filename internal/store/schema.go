package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    context_key          TEXT NOT NULL,
    record_id            TEXT NOT NULL,
    kind                 TEXT NOT NULL,
    amount               REAL NOT NULL,
    title                TEXT,
    description          TEXT NOT NULL DEFAULT '',
    category_id          INTEGER,
    tx_time              TEXT,
    group_id             TEXT,
    raw                  TEXT,
    position             INTEGER NOT NULL,
    cached_at            TEXT NOT NULL,
    PRIMARY KEY (context_key, record_id)
);

CREATE INDEX IF NOT EXISTS idx_tx_context ON transactions(context_key, position);
`
