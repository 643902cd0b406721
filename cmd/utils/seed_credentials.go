package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"harvestsync-service/internal/domain/repository"
	"harvestsync-service/internal/infrastructure/config"
	"harvestsync-service/internal/infrastructure/persistence"
	storeRepo "harvestsync-service/internal/interface/repository"
)

// Seeds the access token and user blob a sync run authenticates with. Useful
// against a fresh store before the first run:
//
//	go run ./cmd/utils -token <jwt> -user '{"id":"...","vendorId":42}'
func main() {
	token := flag.String("token", "", "access token to store")
	user := flag.String("user", "", "current user JSON blob to store")
	clear := flag.Bool("clear", false, "remove stored credentials instead of writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer cleanup()

	if *clear {
		if err := store.Remove(ctx, repository.KeyAccessToken, repository.KeyCurrentUser); err != nil {
			log.Fatalf("failed to clear credentials: %v", err)
		}
		fmt.Println("Credentials cleared")
		return
	}

	if *token == "" || *user == "" {
		flag.Usage()
		os.Exit(2)
	}

	// reject a user blob the sync run would flag as corrupted
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(*user), &parsed); err != nil {
		log.Fatalf("user is not a valid JSON object: %v", err)
	}

	if err := store.Set(ctx, repository.KeyAccessToken, *token); err != nil {
		log.Fatalf("failed to store token: %v", err)
	}
	if err := store.Set(ctx, repository.KeyCurrentUser, *user); err != nil {
		log.Fatalf("failed to store user: %v", err)
	}

	fmt.Println("Credentials stored")
}

func openStore(ctx context.Context, cfg *config.Config) (repository.KeyValueStore, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoConnectTimeout)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() { client.Disconnect(context.Background()) }
		return storeRepo.NewMongoStoreRepository(persistence.GetDatabase(client, cfg.MongoDB)), cleanup, nil
	case config.StoreDriverPostgres:
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			return nil, noop, err
		}
		store, err := storeRepo.NewGormStoreRepository(gormDB)
		return store, noop, err
	default:
		// memory makes no sense here, seeded data would vanish with the process
		return nil, noop, fmt.Errorf("store driver %q cannot be seeded", cfg.StoreDriver)
	}
}
