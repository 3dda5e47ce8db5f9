package main

import (
	"flag"
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaultConfigFile is picked up from the working directory when no
// explicit -config path is given.
const defaultConfigFile = "carve.toml"

// settings mirrors the TOML config file. Every field has a matching flag;
// flags set on the command line win over the file.
type settings struct {
	TieBreak   string `koanf:"tiebreak"`
	Intensity  string `koanf:"intensity"`
	Vertical   int    `koanf:"vertical"`
	Horizontal int    `koanf:"horizontal"`
	MaxSide    int    `koanf:"max_side"`
	Workers    int    `koanf:"workers"`
}

// applyConfig loads the config file and applies its values to every flag
// the user did not set explicitly. A missing default file is not an error;
// a missing explicit -config path is.
func applyConfig(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return err
		}
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return err
	}
	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["tiebreak"] && s.TieBreak != "" {
		*tieBreak = s.TieBreak
	}
	if !set["intensity"] && s.Intensity != "" {
		*intensity = s.Intensity
	}
	if !set["vertical"] && s.Vertical > 0 {
		*vertical = s.Vertical
	}
	if !set["horizontal"] && s.Horizontal > 0 {
		*horizontal = s.Horizontal
	}
	if !set["max"] && s.MaxSide > 0 {
		*maxSide = s.MaxSide
	}
	if !set["conc"] && s.Workers > 0 {
		*workers = s.Workers
	}
	return nil
}
