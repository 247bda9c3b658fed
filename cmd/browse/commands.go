package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/almajid/internal/catalog"
)

// command is one parsed input line. Exactly one of its fields is set.
type command struct {
	mutate func(catalog.Criteria) catalog.Criteria
	search *string
	quit   bool
}

// parseCommand turns an input line into a criteria change. Lines starting
// with "/" are commands, anything else is search text.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return command{search: &line}, nil
	}

	fields := strings.Fields(line)
	name, args := strings.TrimPrefix(fields[0], "/"), fields[1:]
	arg := strings.Join(args, " ")

	switch name {
	case "quit", "q":
		return command{quit: true}, nil
	case "clear":
		return mutate(catalog.Criteria.Clear), nil
	case "cat":
		return mutate(func(c catalog.Criteria) catalog.Criteria { return c.WithCategory(arg) }), nil
	case "sort":
		mode := catalog.ParseSortMode(arg)
		return mutate(func(c catalog.Criteria) catalog.Criteria { return c.WithSort(mode) }), nil
	case "featured":
		on := arg == "" || arg == "on"
		return mutate(func(c catalog.Criteria) catalog.Criteria { return c.WithFeaturedOnly(on) }), nil
	case "size":
		return mutate(func(c catalog.Criteria) catalog.Criteria { return c.ToggleSize(strings.ToUpper(arg)) }), nil
	case "material":
		return mutate(func(c catalog.Criteria) catalog.Criteria { return c.ToggleMaterial(arg) }), nil
	case "pattern":
		return mutate(func(c catalog.Criteria) catalog.Criteria { return c.TogglePattern(arg) }), nil
	case "price":
		return parsePrice(args)
	default:
		return command{}, fmt.Errorf("unknown command %q", name)
	}
}

func parsePrice(args []string) (command, error) {
	if len(args) == 0 {
		return mutate(catalog.Criteria.WithoutPriceRange), nil
	}
	min, err := decimal.NewFromString(args[0])
	if err != nil {
		return command{}, fmt.Errorf("invalid minimum price %q", args[0])
	}
	var max *decimal.Decimal
	if len(args) > 1 {
		v, err := decimal.NewFromString(args[1])
		if err != nil {
			return command{}, fmt.Errorf("invalid maximum price %q", args[1])
		}
		max = &v
	}
	return mutate(func(c catalog.Criteria) catalog.Criteria { return c.WithPriceRange(min, max) }), nil
}

func mutate(fn func(catalog.Criteria) catalog.Criteria) command {
	return command{mutate: fn}
}
