package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/florist/internal/cart"
	"github.com/Alturino/florist/internal/checkout"
	"github.com/Alturino/florist/internal/common/constants"
	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/config"
	"github.com/Alturino/florist/internal/infra"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/otel"
	"github.com/Alturino/florist/internal/pricing"
	"github.com/Alturino/florist/internal/storefront"
)

const storageMemory = "memory"

type app struct {
	cfg       *config.Config
	client    *storefront.Client
	cache     *redis.Client
	quoter    pricing.Quoter
	cart      *cart.Store
	sessions  checkout.SessionStore
	flow      *checkout.Flow
	shutdowns []otel.ShutdownFunc
}

func newApp(
	c context.Context,
	configName string,
	navigator func(cfg *config.Config) checkout.Navigator,
) (*app, error) {
	c, span := otel.Tracer.Start(c, "main newApp")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main newApp").
		Logger()

	a := &app{}

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	a.cfg = config.InitConfig(c, configName)
	logger.Info().Msg("initialized config")

	if a.cfg.Otel.Enabled {
		logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
		logger.Info().Msg("initializing otel sdk")
		c = logger.WithContext(c)
		endpoint := fmt.Sprintf("%s:%d", a.cfg.Otel.Host, a.cfg.Otel.Port)
		shutdowns, err := otel.InitOtelSdk(c, constants.AppName, endpoint)
		a.shutdowns = shutdowns
		if err != nil {
			err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			a.Close(c)
			return nil, err
		}
		logger.Info().Msg("initialized otel sdk")
	}

	logger = logger.With().Str(log.KeyProcess, "initializing storefront client").Logger()
	logger.Info().Msg("initializing storefront client")
	client, err := storefront.NewClient(a.cfg.Api)
	if err != nil {
		err = fmt.Errorf("failed initializing storefront client with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		a.Close(c)
		return nil, err
	}
	a.client = client
	if !client.Identity().IsAnonymous() {
		logger = logger.With().Str(log.KeyUserID, client.Identity().UserID).Logger()
	}
	logger.Info().Msg("initialized storefront client")

	if a.cfg.Session.Storage != storageMemory || a.cfg.Pricing.CacheEnabled {
		logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
		logger.Info().Msg("initializing cache")
		c = logger.WithContext(c)
		cache, err := infra.NewCacheClient(c, a.cfg.Cache)
		if err != nil {
			err = fmt.Errorf("failed initializing cache with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			a.Close(c)
			return nil, err
		}
		a.cache = cache
		logger.Info().Msg("initialized cache")
	}

	logger = logger.With().Str(log.KeyProcess, "initializing price lookup").Logger()
	logger.Info().Msg("initializing price lookup")
	a.quoter = pricing.NewLookup(client)
	if a.cfg.Pricing.CacheEnabled {
		a.quoter = pricing.NewMemo(
			a.quoter,
			a.cache,
			a.cfg.Session.KeyPrefix,
			a.cfg.Pricing.CacheTTL,
			a.cfg.Pricing.Bucket,
		)
	}
	logger.Info().Bool("priceCache", a.cfg.Pricing.CacheEnabled).Msg("initialized price lookup")

	logger = logger.With().Str(log.KeyProcess, "initializing checkout").Logger()
	logger.Info().Msg("initializing checkout")
	a.cart = cart.NewStore(client, a.quoter)
	if a.cfg.Session.Storage == storageMemory {
		a.sessions = checkout.NewMemorySessionStore()
	} else {
		a.sessions = checkout.NewRedisSessionStore(a.cache, a.cfg.Session.KeyPrefix)
	}
	a.flow = checkout.NewFlow(client, a.cart, a.sessions, navigator(a.cfg), a.cfg.Payment)
	logger.Info().Str("sessionStorage", a.cfg.Session.Storage).Msg("initialized checkout")

	return a, nil
}

func (a *app) Close(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main app Close").
		Logger()

	if a.cache != nil {
		logger = logger.With().Str(log.KeyProcess, "shutting down cache").Logger()
		logger.Info().Msg("shutting down cache")
		if err := a.cache.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		} else {
			logger.Info().Msg("shutdown cache")
		}
	}

	if len(a.shutdowns) > 0 {
		logger = logger.With().Str(log.KeyProcess, "shutting down otel").Logger()
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), a.shutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		} else {
			logger.Info().Msg("shutdown otel")
		}
	}
}
