// Package config holds the package sets, repository details and
// deployment entry list that drive a bootstrap run.
//
// The shipped defaults live in an embedded YAML manifest; a user profile
// at $XDG_CONFIG_HOME/hyprstrap/profile.toml can override the dotfiles
// repos, add or exclude packages, pick the waybar theme and pre-answer
// the interactive prompts.
package config

import (
	_ "embed"
	"os"
	"slices"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var embeddedManifest []byte

// Repo describes the third-party package repository to register.
type Repo struct {
	Name          string `yaml:"name"`
	Marker        string `yaml:"marker"`
	Key           string `yaml:"key"`
	Keyserver     string `yaml:"keyserver"`
	KeyringURL    string `yaml:"keyring_url"`
	MirrorlistURL string `yaml:"mirrorlist_url"`
	Include       string `yaml:"include"`
	PacmanConf    string `yaml:"pacman_conf"`
}

// Remote names one dotfiles tree to fetch.
type Remote struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Dotfiles holds the trees the deployer pulls config from. Secondary is
// optional (empty URL means only one tree is fetched).
type Dotfiles struct {
	Primary   Remote `yaml:"primary"`
	Secondary Remote `yaml:"secondary"`
}

// Packages holds every package set consumed during the run.
type Packages struct {
	Network        []string `yaml:"network"`
	Desktop        []string `yaml:"desktop"`
	Audio          []string `yaml:"audio"`
	AudioConflicts []string `yaml:"audio_conflicts"`
	Opportunistic  string   `yaml:"opportunistic"`
	Nvidia         []string `yaml:"nvidia"`
	AUR            []string `yaml:"aur"`
}

// Services holds the units enabled during the run.
type Services struct {
	System    []string `yaml:"system"`
	AudioUser []string `yaml:"audio_user"`
}

// Deploy holds the ordered config entry names.
type Deploy struct {
	Entries []string `yaml:"entries"`
}

// Browser holds the extension registry for the browser bootstrap.
type Browser struct {
	Extensions map[string]string `yaml:"extensions"`
}

// Config is the merged result of the embedded manifest and the optional
// user profile.
type Config struct {
	Version  int      `yaml:"version"`
	Repo     Repo     `yaml:"repo"`
	Dotfiles Dotfiles `yaml:"dotfiles"`
	Packages Packages `yaml:"packages"`
	Services Services `yaml:"services"`
	Deploy   Deploy   `yaml:"deploy"`
	Browser  Browser  `yaml:"browser"`

	// WaybarTheme selects the embedded style template: "default" or
	// "slim".
	WaybarTheme string `yaml:"-"`

	// PromptAnswers pre-answers prompts by question keyword, from the
	// profile.
	PromptAnswers map[string]bool `yaml:"-"`
}

// Profile is the optional user override file (TOML).
type Profile struct {
	Dotfiles struct {
		Primary   string `toml:"primary"`
		Secondary string `toml:"secondary"`
	} `toml:"dotfiles"`
	Packages struct {
		Extra   []string `toml:"extra"`
		Exclude []string `toml:"exclude"`
	} `toml:"packages"`
	Waybar struct {
		Theme string `toml:"theme"`
	} `toml:"waybar"`
	Prompts map[string]bool `toml:"prompts"`
}

// Default returns the embedded manifest with no profile applied.
func Default() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(embeddedManifest, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "embedded manifest is invalid")
	}
	cfg.WaybarTheme = "default"
	cfg.PromptAnswers = map[string]bool{}
	return &cfg, nil
}

// Load returns the embedded manifest merged with the profile at
// profilePath. A missing profile is not an error; a malformed one is.
func Load(profilePath string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(profilePath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read profile %s", profilePath)
	}

	var profile Profile
	if err := toml.Unmarshal(data, &profile); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse profile %s", profilePath)
	}

	cfg.apply(&profile)
	return cfg, nil
}

func (c *Config) apply(p *Profile) {
	if p.Dotfiles.Primary != "" {
		c.Dotfiles.Primary.URL = p.Dotfiles.Primary
	}
	if p.Dotfiles.Secondary != "" {
		c.Dotfiles.Secondary.URL = p.Dotfiles.Secondary
	}
	if p.Waybar.Theme != "" {
		c.WaybarTheme = p.Waybar.Theme
	}
	for question, answer := range p.Prompts {
		c.PromptAnswers[question] = answer
	}

	c.Packages.Desktop = append(c.Packages.Desktop, p.Packages.Extra...)
	if len(p.Packages.Exclude) > 0 {
		excluded := func(pkg string) bool {
			return slices.Contains(p.Packages.Exclude, pkg)
		}
		c.Packages.Desktop = slices.DeleteFunc(c.Packages.Desktop, excluded)
		c.Packages.Network = slices.DeleteFunc(c.Packages.Network, excluded)
		c.Packages.AUR = slices.DeleteFunc(c.Packages.AUR, excluded)
	}
}

// HasSecondary reports whether a secondary dotfiles tree is configured.
func (d Dotfiles) HasSecondary() bool {
	return d.Secondary.URL != ""
}
