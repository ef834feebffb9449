package marketplace

import (
	"strings"

	"github.com/jimezsa/rentcli/internal/network"
)

const (
	ProviderTuro      = "turo"
	ProviderGetaround = "getaround"
)

func Registry(rotator *network.Rotator) (map[string]Provider, error) {
	makeClient := func() (*network.Client, error) {
		return network.NewClient(rotator)
	}

	turo, err := makeClient()
	if err != nil {
		return nil, err
	}
	getaround, err := makeClient()
	if err != nil {
		return nil, err
	}

	return map[string]Provider{
		ProviderTuro:      NewTuro(turo),
		ProviderGetaround: NewGetaround(getaround),
	}, nil
}

func NormalizeProviders(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		name = strings.TrimPrefix(name, "www.")
		name = strings.TrimSuffix(name, ".com")
		out = append(out, name)
	}
	return out
}
