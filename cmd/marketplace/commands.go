package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/config"
	"github.com/nspcc-dev/escrow-market/dump"
	"github.com/nspcc-dev/escrow-market/marketplace"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func loadConfig(ctx *cli.Context) (config.Config, error) {
	p := ctx.String("config")
	if p == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(p)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// withMarketplace opens the configured storage and passes Marketplace working
// on it to f.
func withMarketplace(ctx *cli.Context, f func(*marketplace.Marketplace, config.Config) error) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	defer func() { _ = log.Sync() }()

	st, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	defer func() {
		if err := st.Close(); err != nil {
			log.Error("failed to close storage", zap.Error(err))
		}
	}()

	m, err := marketplace.New(st, marketplace.Prm{
		Logger: log,
		Rent:   cfg.RentCalculator(),
	})
	if err != nil {
		return fmt.Errorf("open marketplace: %w", err)
	}

	return f(m, cfg)
}

func rentQuote(ctx *cli.Context) error {
	return withMarketplace(ctx, func(m *marketplace.Marketplace, _ config.Config) error {
		quote, err := m.RentQuote()
		if err != nil {
			return fmt.Errorf("calculate rent: %w", err)
		}

		fmt.Fprintf(ctx.App.Writer, "%d (%s)\n", quote,
			fixedn.ToString(new(big.Int).SetUint64(quote), ctx.Int("decimals")))

		return nil
	})
}

func printListings(ctx *cli.Context) error {
	var owner *common.Identity

	if s := ctx.String("owner"); s != "" {
		id, err := common.DecodeIdentity(s)
		if err != nil {
			return fmt.Errorf("invalid owner: %w", err)
		}
		owner = &id
	}

	return withMarketplace(ctx, func(m *marketplace.Marketplace, _ config.Config) error {
		ls, err := m.Listings(owner)
		if err != nil {
			return fmt.Errorf("read listings: %w", err)
		}

		for i := range ls {
			fmt.Fprintf(ctx.App.Writer, "%s %d: deposited %d, price %d\n",
				ls[i].Owner, ls[i].Asset, ls[i].Deposited, ls[i].UnitaryPrice)
		}

		return nil
	})
}

func dumpListings(ctx *cli.Context) error {
	label := ctx.String("label")
	if label == "" {
		return errors.New("missing dump label")
	}

	dir := ctx.String("dir")

	return withMarketplace(ctx, func(m *marketplace.Marketplace, cfg config.Config) error {
		rev, ls, err := m.Snapshot()
		if err != nil {
			return fmt.Errorf("take snapshot: %w", err)
		}

		err = os.MkdirAll(dir, 0700)
		if err != nil {
			return fmt.Errorf("create dump dir: %w", err)
		}

		id := dump.ID{Label: label, Revision: rev}

		d, err := dump.NewCreator(dir, id, dump.State{
			Version: common.Version,
			Rent:    cfg.RentCalculator(),
		})
		if err != nil {
			return fmt.Errorf("init dump: %w", err)
		}

		defer d.Close()

		for i := range ls {
			err = d.AddListing(ls[i])
			if err != nil {
				return err
			}
		}

		err = d.Flush()
		if err != nil {
			return fmt.Errorf("flush dump: %w", err)
		}

		fmt.Fprintf(ctx.App.Writer, "%d listings are successfully dumped to '%s' as '%s'\n", len(ls), dir, id)

		return nil
	})
}

func restoreListings(ctx *cli.Context) error {
	var id dump.ID

	err := id.DecodeString(ctx.String("id"))
	if err != nil {
		return fmt.Errorf("invalid dump ID: %w", err)
	}

	r, err := dump.Open(ctx.String("dir"), id)
	if err != nil {
		return fmt.Errorf("open dump: %w", err)
	}

	return withMarketplace(ctx, func(m *marketplace.Marketplace, cfg config.Config) error {
		st := r.State()

		err := common.CheckVersion(st.Version)
		if err != nil {
			return fmt.Errorf("dump layout: %w", err)
		}

		if st.Rent != cfg.RentCalculator() {
			return fmt.Errorf("dump rent %+v differs from the configured %+v", st.Rent, cfg.RentCalculator())
		}

		err = m.Restore(id.Revision, r.Listings())
		if err != nil {
			return fmt.Errorf("restore listings: %w", err)
		}

		fmt.Fprintf(ctx.App.Writer, "%d listings are successfully restored from '%s'\n", len(r.Listings()), id)

		return nil
	})
}
