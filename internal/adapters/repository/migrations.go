package repository

const schema = `
CREATE TABLE IF NOT EXISTS items (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    category        TEXT NOT NULL,
    subcategory     TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    reference_url   TEXT NOT NULL DEFAULT '',
    image_url       TEXT NOT NULL DEFAULT '',
    year_from       INTEGER,
    year_to         INTEGER,
    view_count      INTEGER NOT NULL DEFAULT 0,
    selection_count INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL,
    updated_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_category ON items(category, subcategory);
CREATE INDEX IF NOT EXISTS idx_items_name ON items(name);

CREATE TABLE IF NOT EXISTS accolades (
    id         TEXT PRIMARY KEY,
    item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    type       TEXT NOT NULL,
    name       TEXT NOT NULL,
    value      TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accolades_item ON accolades(item_id);

CREATE TABLE IF NOT EXISTS lists (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    category    TEXT NOT NULL,
    subcategory TEXT NOT NULL DEFAULT '',
    owner_id    TEXT,
    max_size    INTEGER NOT NULL CHECK (max_size >= 1),
    parent_id   TEXT REFERENCES lists(id) ON DELETE SET NULL,
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lists_category ON lists(category);
CREATE INDEX IF NOT EXISTS idx_lists_owner ON lists(owner_id);

CREATE TABLE IF NOT EXISTS list_members (
    list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    ranking    INTEGER NOT NULL CHECK (ranking >= 1),
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (list_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_list_members_rank ON list_members(list_id, ranking);
CREATE INDEX IF NOT EXISTS idx_list_members_item ON list_members(item_id);

CREATE TABLE IF NOT EXISTS votes (
    user_id    TEXT NOT NULL,
    list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    value      INTEGER NOT NULL CHECK (value IN (-1, 1)),
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (user_id, list_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_item_created ON votes(item_id, created_at);
CREATE INDEX IF NOT EXISTS idx_votes_list ON votes(list_id);

CREATE TABLE IF NOT EXISTS list_versions (
    list_id     TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    version     INTEGER NOT NULL CHECK (version >= 1),
    snapshot    TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    author_id   TEXT,
    created_at  DATETIME NOT NULL,
    PRIMARY KEY (list_id, version)
);

CREATE TABLE IF NOT EXISTS item_statistics (
    item_id           TEXT PRIMARY KEY REFERENCES items(id) ON DELETE CASCADE,
    total_appearances INTEGER NOT NULL DEFAULT 0,
    average_rank      REAL,
    rank_variance     REAL,
    best_rank         INTEGER,
    worst_rank        INTEGER,
    top10_count       INTEGER NOT NULL DEFAULT 0,
    top3_count        INTEGER NOT NULL DEFAULT 0,
    first_place_count INTEGER NOT NULL DEFAULT 0,
    last_calculated   DATETIME NOT NULL
);
`
