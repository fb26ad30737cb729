package store

import "moves/config"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS moves (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    move TEXT NOT NULL,
    ipaddress TEXT NOT NULL
);
`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS moves (
    id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    move TEXT NOT NULL,
    ipaddress VARCHAR(45) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

func schemaFor(driver string) string {
	if driver == config.DriverMySQL {
		return mysqlSchema
	}
	return sqliteSchema
}
