package util

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

// IPLocation is the coarse location of a client address.
type IPLocation struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Empty reports whether no location is known.
func (l IPLocation) Empty() bool {
	return l.City == "" && l.Country == ""
}

var (
	geoipMu    sync.RWMutex
	geoipDB    *geoip2.Reader
	geoipCache = cache.New(24*time.Hour, time.Hour)
)

// InitGeoIP opens a GeoIP2/GeoLite2 .mmdb file used to enrich login events.
// An empty dbPath falls back to GEOIP_DB_PATH; when both are empty lookups stay disabled.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}

	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipDB != nil {
		_ = geoipDB.Close()
	}
	geoipDB = r
	geoipCache.Flush()
	return nil
}

// CloseGeoIP closes the GeoIP DB if opened.
func CloseGeoIP() {
	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

// GetIPLocation looks up ip in the local GeoIP database. Private, loopback and
// unparsable addresses, or a missing database, yield an empty location.
func GetIPLocation(ip string) IPLocation {
	addr := net.ParseIP(ip)
	if addr == nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return IPLocation{}
	}

	if v, ok := geoipCache.Get(ip); ok {
		if loc, ok := v.(IPLocation); ok {
			return loc
		}
	}

	geoipMu.RLock()
	db := geoipDB
	geoipMu.RUnlock()
	if db == nil {
		return IPLocation{}
	}

	rec, err := db.City(addr)
	if err != nil {
		return IPLocation{}
	}

	loc := IPLocation{City: rec.City.Names["en"], Country: rec.Country.Names["en"]}
	if loc.Country == "" {
		loc.Country = rec.Country.IsoCode
	}
	geoipCache.Set(ip, loc, cache.DefaultExpiration)
	return loc
}
