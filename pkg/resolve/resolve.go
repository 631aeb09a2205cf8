package resolve

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/sirupsen/logrus"
	"github.com/tkjaer/gwhosts/pkg/subnet"
)

// DefaultTTL is how long a lookup stays cached when the backend does not
// report a record TTL.
const DefaultTTL = 5 * time.Minute

// ErrNoAddresses is returned when a hostname resolves without any IPv4
// address.
var ErrNoAddresses = errors.New("no IPv4 addresses")

// Host is the answer for a single hostname, in the shape of a classic
// gethostbyname_ex call: the canonical name, the names that pointed to it
// and its IPv4 addresses.
type Host struct {
	Canonical string
	Aliases   []string
	Addresses []string
	TTL       time.Duration
}

// LookupFunc resolves a single hostname.
type LookupFunc func(ctx context.Context, hostname string) (Host, error)

// Result is the outcome of resolving one hostname.
type Result struct {
	Hostname string
	Host     Host
	Err      error
}

// Resolver turns a list of hostnames into an address map. Lookups are
// cached per hostname so repeated names cost a single query.
type Resolver struct {
	cache      *ttlcache.Cache[string, Host]
	lookupFunc LookupFunc
	log        logrus.FieldLogger
}

// NewResolver creates a Resolver using lookup for uncached names.
func NewResolver(lookup LookupFunc, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, Host](DefaultTTL),
			ttlcache.WithDisableTouchOnHit[string, Host](),
		),
		lookupFunc: lookup,
		log:        log,
	}
}

// Lookup resolves hostname, answering from the cache when possible.
// Failed lookups are not cached.
func (r *Resolver) Lookup(ctx context.Context, hostname string) (Host, error) {
	name := Normalize(hostname)
	if item := r.cache.Get(name); item != nil {
		r.log.WithField("hostname", name).Debug("Resolved from cache")
		return item.Value(), nil
	}

	host, err := r.lookupFunc(ctx, name)
	if err != nil {
		return Host{}, err
	}

	ttl := host.TTL
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	r.cache.Set(name, host, ttl)
	return host, nil
}

// Resolve looks up every hostname in order and builds the address map.
// Each address maps to the queried hostname and all of its aliases. A
// failing hostname is logged and skipped; it never stops the batch.
func (r *Resolver) Resolve(ctx context.Context, hostnames []string) (subnet.AddressMap, []Result) {
	addresses := subnet.AddressMap{}
	results := make([]Result, 0, len(hostnames))

	for _, hostname := range hostnames {
		name := Normalize(hostname)
		if name == "" {
			continue
		}

		host, err := r.Lookup(ctx, name)
		results = append(results, Result{Hostname: name, Host: host, Err: err})
		if err != nil {
			r.log.WithError(err).WithField("hostname", name).Error("Failed to resolve hostname")
			continue
		}

		names := append([]string{name}, host.Aliases...)
		for _, addr := range host.Addresses {
			addresses.Add(addr, names...)
		}
		r.log.WithFields(logrus.Fields{
			"hostname":  name,
			"addresses": host.Addresses,
			"aliases":   host.Aliases,
		}).Debug("Resolved hostname")
	}

	return addresses, results
}

// Normalize lower-cases a hostname and strips surrounding whitespace and the
// trailing root dot.
func Normalize(hostname string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(hostname), "."))
}
