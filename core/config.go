package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", true)
	Conf.SetDefault("appName", "Darasa")
	Conf.SetDefault("serverAddr", ":3000")
	Conf.SetDefault("secretKey", "h2(x!y)#*c2(#yg4h^$cegm2emypoq5-wer)enb$+57=dz&uox")
	Conf.SetDefault("backendBaseURL", "http://localhost:8000/api")
	Conf.SetDefault("backendTimeout", 30*time.Second)
	Conf.SetDefault("loginRoute", "/login")
	Conf.SetDefault("sessionCookie", "darasa_session")
	Conf.SetDefault("sessionMaxAge", 7*24*time.Hour)
	Conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		Conf.SetDefault("testMode", true)
	}
	Conf.SetDefault("env", env)
	Conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}
