package di

import (
	"context"
	"database/sql"
	"log"

	"walletsync/internal/adapters/inbound/http/controllers"
	httpRouter "walletsync/internal/adapters/inbound/http/router"
	accountstorefile "walletsync/internal/adapters/outbound/accountstore/file"
	"walletsync/internal/adapters/outbound/chainquery/ethrpc"
	"walletsync/internal/adapters/outbound/docs"
	eventpushhttp "walletsync/internal/adapters/outbound/eventpush/http"
	historyapihttp "walletsync/internal/adapters/outbound/historyapi/http"
	postgresql "walletsync/internal/adapters/outbound/persistence/postgresql"
	postgresqlnameregistry "walletsync/internal/adapters/outbound/persistence/postgresql/nameregistry"
	postgresqlnoteevent "walletsync/internal/adapters/outbound/persistence/postgresql/noteevent"
	postgresqloplog "walletsync/internal/adapters/outbound/persistence/postgresql/oplog"
	postgresqlshared "walletsync/internal/adapters/outbound/persistence/postgresql/shared"
	postgresqlsquared "walletsync/internal/adapters/outbound/persistence/postgresql/squared"
	postgresqltransferlog "walletsync/internal/adapters/outbound/persistence/postgresql/transferlog"
	"walletsync/internal/application/dto"
	"walletsync/internal/application/indexers"
	portsin "walletsync/internal/application/ports/in"
	"walletsync/internal/application/use_cases"
	"walletsync/internal/domain/entities"
	"walletsync/internal/infrastructure/accountmanager"
	"walletsync/internal/infrastructure/config"
	"walletsync/internal/infrastructure/httpserver"
	"walletsync/internal/infrastructure/indexworker"
	"walletsync/internal/infrastructure/syncworker"
)

// APIContainer holds the history API server wiring: HTTP surface,
// persistence bootstrap and the index pipeline worker.
type APIContainer struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	IndexWorker                  *indexworker.Worker
}

// ClientContainer holds the on-device sync daemon wiring.
type ClientContainer struct {
	AccountManager *accountmanager.Manager
	NetworkTracker *syncworker.NetworkStateTracker
	SyncWorker     *syncworker.Worker
}

func BuildAPI(cfg config.APIConfig, logger *log.Logger) (APIContainer, error) {
	healthUseCase := use_cases.NewGetHealthUseCase()
	openAPIReadModel := docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(openAPIReadModel)

	persistenceGateway := postgresql.NewPersistenceBootstrapGateway(
		cfg.DatabaseURL,
		cfg.DatabaseTarget,
		cfg.MigrationsPath,
		logger,
	)
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)
	databasePool := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)

	transferLogRepository := postgresqltransferlog.NewRepository(databasePool)
	noteEventRepository := postgresqlnoteevent.NewRepository(databasePool)
	squaredRepository := postgresqlsquared.NewRepository(databasePool, cfg.BlockTimeSecs)
	userOpLogReadModel := postgresqloplog.NewReadModel(databasePool, cfg.ChainID)
	nameRegistryReadModel := postgresqlnameregistry.NewReadModel(databasePool)

	balanceReader, balanceErr := ethrpc.NewBalanceReader(
		cfg.ChainRPCURL,
		cfg.HomeCoinAddress,
		cfg.RPCTimeout,
		logger,
	)
	if balanceErr != nil {
		return APIContainer{}, balanceErr
	}

	coinIndexer := indexers.NewCoinIndexer(
		indexers.CoinIndexerConfig{
			ChainID:          cfg.ChainID,
			TokenAddress:     cfg.HomeCoinAddress,
			PaymasterAddress: cfg.GasConstants.PaymasterAddress,
			GenesisTimestamp: cfg.GenesisTimestamp,
			BlockTimeSecs:    cfg.BlockTimeSecs,
		},
		transferLogRepository,
		userOpLogReadModel,
		balanceReader,
		logger,
	)
	noteIndexer := indexers.NewNoteIndexer(
		indexers.NoteIndexerConfig{ChainID: cfg.ChainID},
		noteEventRepository,
		nameRegistryReadModel,
		logger,
	)
	squaredIndexer := indexers.NewSquaredIndexer(
		indexers.SquaredIndexerConfig{
			ChainID:          cfg.ChainID,
			GenesisTimestamp: cfg.GenesisTimestamp,
		},
		squaredRepository,
		logger,
	)

	if cfg.PushEnabled {
		wirePushDelivery(cfg, coinIndexer, noteIndexer, logger)
	}

	indexWorker := indexworker.NewWorker(
		indexworker.Config{
			Enabled:       cfg.IndexEnabled,
			ChainID:       cfg.ChainID,
			StartBlock:    cfg.IndexStartBlock,
			BatchBlocks:   cfg.IndexBatchBlocks,
			PollInterval:  cfg.IndexPollInterval,
			WindowTimeout: cfg.IndexWindowTimeout,
		},
		squaredRepository,
		squaredIndexer,
		[]indexworker.Ingestor{coinIndexer, noteIndexer},
		logger,
	)

	historyUseCase := use_cases.NewGetAccountHistoryUseCase(
		use_cases.GetAccountHistoryConfig{
			ChainID:              cfg.ChainID,
			GenesisTimestamp:     cfg.GenesisTimestamp,
			BlockTimeSecs:        cfg.BlockTimeSecs,
			FinalityDepth:        cfg.FinalityDepth,
			GasConstants:         toEntityGasConstants(cfg.GasConstants),
			RecommendedExchanges: toEntityExchanges(cfg.RecommendedExchanges),
		},
		coinIndexer,
		squaredRepository,
		nameRegistryReadModel,
		nameRegistryReadModel,
	)
	noteByLinkUseCase := use_cases.NewGetNoteByLinkUseCase(noteIndexer)

	healthController := controllers.NewHealthController(healthUseCase, logger)
	swaggerController := controllers.NewSwaggerController(openAPIUseCase, logger)
	accountHistoryController := controllers.NewAccountHistoryController(historyUseCase, logger)
	notesController := controllers.NewNotesController(noteByLinkUseCase, logger)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:         healthController,
		SwaggerController:        swaggerController,
		AccountHistoryController: accountHistoryController,
		NotesController:          notesController,
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return APIContainer{
		Database:                     databasePool,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		IndexWorker:                  indexWorker,
	}, nil
}

func BuildClient(ctx context.Context, cfg config.ClientConfig, logger *log.Logger) (ClientContainer, error) {
	accountStore := accountstorefile.NewStore(cfg.AccountStorePath)
	contactCache := accountmanager.NewInMemoryContactCache()

	manager, managerErr := accountmanager.NewManager(ctx, accountStore, contactCache, logger)
	if managerErr != nil {
		return ClientContainer{}, managerErr
	}

	historyGateway := historyapihttp.NewGateway(historyapihttp.Config{
		BaseURL: cfg.HistoryAPIBaseURL,
		Timeout: cfg.HistoryTimeout,
	})
	networkTracker := syncworker.NewNetworkStateTracker()

	syncUseCase := use_cases.NewSyncAccountUseCase(manager, historyGateway, networkTracker, logger)
	syncWorker := syncworker.NewWorker(cfg.SyncEnabled, syncUseCase, manager, networkTracker, logger)

	return ClientContainer{
		AccountManager: manager,
		NetworkTracker: networkTracker,
		SyncWorker:     syncWorker,
	}, nil
}

func wirePushDelivery(
	cfg config.APIConfig,
	coinIndexer *indexers.CoinIndexer,
	noteIndexer *indexers.NoteIndexer,
	logger *log.Logger,
) {
	pushGateway := eventpushhttp.NewGateway(eventpushhttp.Config{
		EndpointURL: cfg.PushEndpointURL,
		HMACSecret:  cfg.PushHMACSecret,
	})

	deliver := func(batch dto.PushEventBatch) {
		if appErr := pushGateway.PushEvents(context.Background(), batch); appErr != nil {
			logger.Printf("push delivery failed kind=%s code=%s message=%s", batch.Kind, appErr.Code, appErr.Message)
		}
	}

	coinIndexer.AddListener(func(batch []dto.TransferLogRow) {
		go deliver(dto.PushEventBatch{
			Kind:      dto.PushEventKindTransfer,
			Transfers: batch,
		})
	})
	noteIndexer.AddListener(func(batch []entities.Note) {
		go deliver(dto.PushEventBatch{
			Kind:  dto.PushEventKindNoteStatus,
			Notes: batch,
		})
	})
}

func toEntityGasConstants(constants config.GasConstants) entities.ChainGasConstants {
	return entities.ChainGasConstants{
		MaxFeePerGas:         constants.MaxFeePerGas,
		MaxPriorityFeePerGas: constants.MaxPriorityFeePerGas,
		EstimatedFee:         constants.EstimatedFee,
		PaymasterAddress:     constants.PaymasterAddress,
		PreVerificationGas:   constants.PreVerificationGas,
	}
}

func toEntityExchanges(exchanges []config.RecommendedExchange) []entities.RecommendedExchange {
	out := make([]entities.RecommendedExchange, 0, len(exchanges))
	for _, exchange := range exchanges {
		out = append(out, entities.RecommendedExchange{
			Title: exchange.Title,
			URL:   exchange.URL,
		})
	}
	return out
}
