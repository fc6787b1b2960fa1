package cache

type Driver string

const (
	DriverNone   Driver = "none"
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// Config selects a cache backend. Dir is used by the file driver, Path by
// the sqlite driver and MaxEntries by the memory driver.
type Config struct {
	Driver     Driver
	Dir        string
	Path       string
	MaxEntries int
}

const defaultMaxEntries = 256

// Valid reports whether d names a known driver.
func (d Driver) Valid() bool {
	switch d {
	case "", DriverNone, DriverFile, DriverSQLite, DriverMemory:
		return true
	}
	return false
}
