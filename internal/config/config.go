package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "SCROLLCAL_"

type Application struct {
	Server    Server    `koanf:"server"`
	Holidays  Holidays  `koanf:"holidays"`
	Calendar  Calendar  `koanf:"calendar"`
	Storage   Storage   `koanf:"storage"`
	Database  Database  `koanf:"db"`
	Redis     Redis     `koanf:"redis"`
	RateLimit RateLimit `koanf:"ratelimit"`
}

type Server struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
	IdleTimeout  time.Duration `koanf:"idletimeout"`
}

// Holidays configures the public holiday source. Years are inclusive.
type Holidays struct {
	BaseURL  string `koanf:"baseurl"`
	Country  string `koanf:"country"`
	FromYear int    `koanf:"fromyear"`
	ToYear   int    `koanf:"toyear"`
}

type Calendar struct {
	DefaultDayCount       int      `koanf:"defaultdaycount"`
	DefaultViewportHeight int      `koanf:"defaultviewportheight"`
	MaxDayCount           int      `koanf:"maxdaycount"`
	Timezone              string   `koanf:"timezone"`
	WeekdayNames          []string `koanf:"weekdaynames"`
}

type Storage struct {
	// Driver is one of "memory", "file", "postgres" or "redis".
	Driver string      `koanf:"driver"`
	Key    string      `koanf:"key"`
	File   FileStorage `koanf:"file"`
}

type FileStorage struct {
	Path string `koanf:"path"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type RateLimit struct {
	PerMinute int `koanf:"perminute"`
	Burst     int `koanf:"burst"`

	// TrustForwardedFor keys clients by X-Forwarded-For. Enable only behind a proxy that overwrites it.
	TrustForwardedFor bool          `koanf:"trustforwardedfor"`
	IdleTTL           time.Duration `koanf:"idlettl"`
}

// Defaults returns the configuration used when neither a file nor environment overrides a value.
func Defaults() Application {
	return Application{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Holidays: Holidays{
			BaseURL:  "https://date.nager.at/api/v3",
			Country:  "JP",
			FromYear: 2024,
			ToYear:   2027,
		},
		Calendar: Calendar{
			DefaultDayCount:       300,
			DefaultViewportHeight: 800,
			MaxDayCount:           3660,
			WeekdayNames:          []string{"日", "月", "火", "水", "木", "金", "土"},
		},
		Storage: Storage{
			Driver: "file",
			Key:    "calendarSchedules",
			File: FileStorage{
				Path: "scrollcal_data.json",
			},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "scrollcal",
			Pass:   "",
			Name:   "scrollcal",
			Schema: "scrollcal",
		},
		Redis: Redis{
			Addr: "localhost:6379",
		},
		RateLimit: RateLimit{
			PerMinute: 120,
			Burst:     20,
			IdleTTL:   10 * time.Minute,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			if k == "calendar.weekdaynames" {
				return k, strings.Fields(v)
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
