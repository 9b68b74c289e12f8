package importfile

// Entry is a single bookmark in the import YAML.
type Entry struct {
	URL         string   `yaml:"url"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	User        string   `yaml:"user"`
}

// File is the root structure of an import file.
type File struct {
	Bookmarks []Entry `yaml:"bookmarks"`
}
