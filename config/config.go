package config

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	PublicDir    string
	PublicBase   string
}

// GetPublicDir returns the root directory for uploaded and shared files.
func (c *AppConfig) GetPublicDir() string {
	return c.PublicDir
}

// GetPublicBase returns the externally visible base URL used when building
// absolute share links.
func (c *AppConfig) GetPublicBase() string {
	return c.PublicBase
}
