package cmd

import (
	"github.com/alecthomas/kong"

	"github.com/jimezsa/rentcli/internal/marketplace"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version   VersionCmd  `cmd:"" help:"Print version."`
	Config    ConfigCmd   `cmd:"" help:"Manage configuration."`
	Scan      ScanCmd     `cmd:"" help:"Scan upcoming weekends for the cheapest rental."`
	Turo      SiteScanCmd `cmd:"" name:"turo" help:"Scan Turo only."`
	Getaround SiteScanCmd `cmd:"" name:"getaround" help:"Scan Getaround only."`
	History   HistoryCmd  `cmd:"" help:"Quote history utilities."`
	Proxies   ProxiesCmd  `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{
		Turo:      SiteScanCmd{Provider: marketplace.ProviderTuro},
		Getaround: SiteScanCmd{Provider: marketplace.ProviderGetaround},
	}
}
