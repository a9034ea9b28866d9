package events

// catalogFile is the YAML event catalog.
type catalogFile struct {
	Events []eventRecord `yaml:"events"`
}

type eventRecord struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Date     string `yaml:"date"`
	Template string `yaml:"template"`

	NamePosition struct {
		X         float64 `yaml:"x"`
		Y         float64 `yaml:"y"`
		FontSize  float64 `yaml:"font_size"`
		FontColor string  `yaml:"font_color"`
	} `yaml:"name_position"`

	QRPosition struct {
		X    int `yaml:"x"`
		Y    int `yaml:"y"`
		Size int `yaml:"size"`
	} `yaml:"qr_position"`

	// RegistrantsFile is a CSV with an email and a name column, resolved
	// relative to the catalog.
	RegistrantsFile string       `yaml:"registrants_file"`
	Registrants     []Registrant `yaml:"registrants"`
}

// Registrant is one person registered for an event.
type Registrant struct {
	Email string `yaml:"email" json:"email"`
	Name  string `yaml:"name" json:"name"`
}

// Summary describes an event for listings.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Registrants int    `json:"registrants"`
}
