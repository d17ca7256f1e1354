package main

import (
	"flag"

	"poolfs/pkg/config"
	"poolfs/pkg/log"
	"poolfs/pkg/pool"
	"poolfs/pkg/reaper"
	"poolfs/pkg/server"
	"poolfs/pkg/session"
	"poolfs/pkg/storage"
)

func main() {
	configPath := flag.String("config", "poolfs.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetDebugMode()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}
	if cfg.Debug {
		log.SetDebugMode()
	}

	rootPool, err := pool.New(cfg.StoragePaths)
	if err != nil {
		log.Fatal().Err(err).Strs("paths", cfg.StoragePaths).Msg("Failed to initialize storage roots")
	}

	store, err := session.NewStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DatabasePath).Msg("Failed to open session database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close session database")
		}
	}()

	engine := storage.New(rootPool)
	manager := session.NewManager(store, engine)

	reap := reaper.New(rootPool, cfg.ReapInterval(), cfg.ReapMaxAge())
	reap.Start()
	defer reap.Stop()

	log.Info().
		Strs("roots", rootPool.Roots()).
		Str("db", cfg.DatabasePath).
		Msg("Storage subsystem initialized")

	srv := server.New(rootPool, engine, store, manager, reap)
	if err := srv.Start(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
