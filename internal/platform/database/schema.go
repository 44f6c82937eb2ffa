package database

// Schema contains the DDL for all tables and indexes. Statements are
// idempotent so Bootstrap can run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS platforms (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name TEXT NOT NULL UNIQUE,
    base_url TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS user_platforms (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL,
    platform_id UUID NOT NULL REFERENCES platforms(id),
    platform_username TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_synced TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, platform_id)
);

CREATE TABLE IF NOT EXISTS platform_profiles (
    user_id UUID NOT NULL,
    platform_id UUID NOT NULL REFERENCES platforms(id),
    username TEXT NOT NULL,
    rating INT,
    rank TEXT,
    solved_count INT,
    contests_participated INT,
    fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, platform_id)
);

CREATE TABLE IF NOT EXISTS submissions (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL,
    platform_id UUID NOT NULL REFERENCES platforms(id),
    problem_title TEXT NOT NULL,
    problem_slug TEXT NOT NULL,
    problem_url TEXT,
    difficulty TEXT,
    difficulty_rating INT,
    difficulty_level TEXT NOT NULL DEFAULT 'Unknown',
    category TEXT,
    status TEXT NOT NULL,
    language TEXT,
    submitted_at TIMESTAMPTZ NOT NULL,
    execution_time_ms INT,
    memory_used_bytes BIGINT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, platform_id, problem_slug, submitted_at)
);
CREATE INDEX IF NOT EXISTS idx_submissions_user_platform ON submissions (user_id, platform_id);
CREATE INDEX IF NOT EXISTS idx_submissions_user_date ON submissions (user_id, submitted_at DESC);

CREATE TABLE IF NOT EXISTS contests (
    id UUID PRIMARY KEY,
    platform_id UUID NOT NULL REFERENCES platforms(id),
    title TEXT NOT NULL,
    contest_url TEXT,
    start_time TIMESTAMPTZ NOT NULL,
    duration_minutes INT NOT NULL,
    is_rated BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (platform_id, title, start_time)
);
CREATE INDEX IF NOT EXISTS idx_contests_start_time ON contests (start_time);

CREATE TABLE IF NOT EXISTS sync_status (
    user_id UUID NOT NULL,
    platform_id UUID NOT NULL REFERENCES platforms(id),
    status TEXT NOT NULL DEFAULT 'pending',
    last_sync_time TIMESTAMPTZ,
    submissions_synced INT NOT NULL DEFAULT 0,
    error_message TEXT,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, platform_id)
);

CREATE TABLE IF NOT EXISTS contest_reminders (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL,
    contest_id UUID NOT NULL REFERENCES contests(id),
    reminder_time TIMESTAMPTZ NOT NULL,
    is_sent BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, contest_id)
);
CREATE INDEX IF NOT EXISTS idx_reminders_due ON contest_reminders (reminder_time) WHERE NOT is_sent;

CREATE TABLE IF NOT EXISTS reminder_settings (
    user_id UUID PRIMARY KEY,
    default_minutes_before INT NOT NULL DEFAULT 30,
    email_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PlatformSeed inserts the fixed platform catalog. ON CONFLICT keeps it
// idempotent across restarts.
const PlatformSeed = `
INSERT INTO platforms (name, base_url) VALUES
    ('LeetCode', 'https://leetcode.com'),
    ('Codeforces', 'https://codeforces.com'),
    ('AtCoder', 'https://atcoder.jp'),
    ('GeeksforGeeks', 'https://www.geeksforgeeks.org')
ON CONFLICT (name) DO NOTHING;
`
