package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	Window Window `json:"window"`
	Globe  Globe  `json:"globe"`
	Server Server `json:"server"`
}

type Window struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Globe struct {
	GridSize       int     `json:"gridSize"`
	PoleZoomLevels int     `json:"poleZoomLevels"`
	StartLat       float64 `json:"startLat"`
	StartLng       float64 `json:"startLng"`
	StartZoom      float64 `json:"startZoom"`
}

type Server struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

func Defaults() Settings {
	return Settings{
		Window: Window{
			Width:  1280,
			Height: 800,
		},
		Globe: Globe{
			GridSize:       64,
			PoleZoomLevels: 5,
			StartLat:       30.0,
			StartLng:       0.0,
			StartZoom:      2.5,
		},
		Server: Server{
			Port:             8080,
			UpdateIntervalMs: 100,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned as-is.
func Load(path string) (Settings, error) {
	settings := Defaults()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&settings); err != nil {
		return settings, fmt.Errorf("error parsing %s: %v", path, err)
	}
	return settings, nil
}
