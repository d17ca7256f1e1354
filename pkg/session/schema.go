package session

// Schema contains the SQL statements to create the session database schema.
const Schema = `
-- In-progress chunked uploads. A row exists only between initiate and
-- finalize/cancel/reap; completed uploads live in the files table.
CREATE TABLE IF NOT EXISTS upload_sessions (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    filename        TEXT NOT NULL,
    total_size      INTEGER NOT NULL,
    chunk_size      INTEGER NOT NULL,
    total_chunks    INTEGER NOT NULL,
    uploaded_chunks INTEGER NOT NULL DEFAULT 0,
    temp_path       TEXT NOT NULL,
    root_path       TEXT NOT NULL,
    is_completed    BOOLEAN DEFAULT FALSE,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Permanently placed files.
CREATE TABLE IF NOT EXISTS files (
    id                TEXT PRIMARY KEY,
    user_id           TEXT NOT NULL,
    filename          TEXT NOT NULL,
    original_filename TEXT NOT NULL,
    file_path         TEXT NOT NULL,
    root_path         TEXT NOT NULL,
    size              INTEGER NOT NULL,
    created_at        DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON upload_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_files_user ON files(user_id);
`
