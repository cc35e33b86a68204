package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database layout. Repository
// tests build their in-memory databases from GetSchemaSQL(), so a column
// referenced by repository code but missing here fails immediately with
// "no such column".
const SchemaSQL = `
-- Registered foremen
CREATE TABLE IF NOT EXISTS profiles (
	telegram_id INTEGER PRIMARY KEY,
	last_name TEXT NOT NULL,
	first_name TEXT NOT NULL,
	patronymic TEXT,
	display TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per foreman per calendar day
CREATE TABLE IF NOT EXISTS shifts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	shift_date TEXT NOT NULL,

	driver TEXT,
	workers TEXT,
	crew_saved INTEGER NOT NULL DEFAULT 0,

	ship TEXT,
	holds INTEGER,
	transport INTEGER NOT NULL DEFAULT 0,
	foreman INTEGER NOT NULL DEFAULT 0,
	workers_pay INTEGER NOT NULL DEFAULT 0,
	auxiliary INTEGER NOT NULL DEFAULT 0,
	food INTEGER NOT NULL DEFAULT 0,
	taxi INTEGER NOT NULL DEFAULT 0,
	other INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0,
	expenses_saved INTEGER NOT NULL DEFAULT 0,

	film_meters INTEGER NOT NULL DEFAULT 0,
	tube_count INTEGER NOT NULL DEFAULT 0,
	tape_count INTEGER NOT NULL DEFAULT 0,
	photos_link TEXT,
	materials_saved INTEGER NOT NULL DEFAULT 0,

	closed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME,
	UNIQUE(user_id, shift_date),
	FOREIGN KEY (user_id) REFERENCES profiles(telegram_id)
);

-- Append-only reference directories (drivers, workers, ships)
CREATE TABLE IF NOT EXISTS directory_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL CHECK(kind IN ('driver', 'worker', 'ship')),
	name TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('active', 'archived')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(kind, name)
);

CREATE INDEX IF NOT EXISTS idx_shifts_user_date ON shifts(user_id, shift_date);
CREATE INDEX IF NOT EXISTS idx_directory_kind ON directory_entries(kind, status);
`

// GetSchemaSQL returns the authoritative schema for tests and fresh installs.
func GetSchemaSQL() string {
	return SchemaSQL
}
