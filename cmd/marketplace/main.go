package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	ctl := newApp()

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	ctl := cli.NewApp()
	ctl.Name = "marketplace"
	ctl.Usage = "Inspect and maintain escrow marketplace listing storage"
	ctl.Commands = []cli.Command{
		{
			Name:   "rent",
			Usage:  "Print rent of a single listing",
			Flags:  []cli.Flag{configFlag, decimalsFlag},
			Action: rentQuote,
		},
		{
			Name:      "listings",
			Usage:     "Print stored listings",
			UsageText: "marketplace listings [--owner <base58>] [--config <file>]",
			Flags: []cli.Flag{
				configFlag,
				cli.StringFlag{
					Name:  "owner",
					Usage: "Print listings of the given owner only",
				},
			},
			Action: printListings,
		},
		{
			Name:  "dump",
			Usage: "Dump listings into the directory",
			Flags: []cli.Flag{
				configFlag,
				dirFlag,
				cli.StringFlag{
					Name:  "label",
					Usage: "Label of the dump source, must not contain '-'",
				},
			},
			Action: dumpListings,
		},
		{
			Name:  "restore",
			Usage: "Restore listings from the dump into empty storage",
			Flags: []cli.Flag{
				configFlag,
				dirFlag,
				cli.StringFlag{
					Name:  "id",
					Usage: "Dump ID in '<label>-<revision>' format",
				},
			},
			Action: restoreListings,
		},
	}

	return ctl
}

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Path to the YAML configuration file",
	}
	dirFlag = cli.StringFlag{
		Name:  "dir, d",
		Usage: "Directory with dumps",
		Value: "testdata",
	}
	decimalsFlag = cli.IntFlag{
		Name:  "decimals",
		Usage: "Decimal precision of the payment currency",
		Value: 6,
	}
)
