package download

// Config holds downloader settings that can come from the environment.
type Config struct {
	Folder             string `env:"DOWNLOAD_FOLDER" envDefault:"./download"`
	RemoveEmptyFolders bool   `env:"DOWNLOAD_REMOVE_EMPTY_FOLDERS" envDefault:"true"`
	SkipChecking       bool   `env:"DOWNLOAD_SKIP_CHECKING" envDefault:"false"`
	CheckFolder        string `env:"DOWNLOAD_CHECK_FOLDER"`
	CheckAnyExtension  bool   `env:"DOWNLOAD_CHECK_ANY_EXTENSION" envDefault:"false"`
}

// DefaultConfig returns the settings used by New.
func DefaultConfig() Config {
	return Config{
		Folder:             "./download",
		RemoveEmptyFolders: true,
	}
}
