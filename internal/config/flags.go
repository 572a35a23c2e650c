package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags holds the values bound to a command's flag set. Unset flags keep
// their zero values and therefore never override other sources.
type Flags struct {
	serverAddress  NetAddress
	adapterAddress string
	databaseDSN    string
	cacheDSN       string
	jsonConfigPath string
	tokenSignKey   string
	tokenIssuer    string
	tokenDuration  time.Duration
	requestTimeout time.Duration
	remoteTimeout  time.Duration
	hashKey        string
	logFile        string
	identityPoolID string
	identityID     string
	identityToken  string
	roleArn        string
	region         string
	datasets       []string
	syncInterval   time.Duration
}

// BindFlags registers all configuration flags on fs.
//
// Flags:
//
//	-a, --address            server listen address in format [host]:[port]
//	-r, --remote             record store base URL used by the client
//	-d, --database-dsn       server database DSN ("memory" for in-process)
//	    --cache-dsn          client cache DSN ("memory", "file://path" or SQLite path)
//	-c, --config             json file path with configs
//	    --token-sign-key     session token signing key
//	    --token-issuer       session token issuer name
//	    --token-duration     session token lifetime (e.g., "1h")
//	    --request-timeout    server request timeout (e.g., "30s")
//	    --remote-timeout     client remote call deadline (e.g., "15s")
//	    --hash-key           patch integrity hash key
//	    --log-file           client log file
//	    --identity-pool-id   identity pool id
//	    --identity-id        identity id (authenticated mode)
//	    --identity-token     web identity token (authenticated mode)
//	    --role-arn           role assumed with the web identity token
//	    --region             region of the identity pool
//	    --datasets           datasets pulled on init
//	    --sync-interval      background sync interval
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.VarP(&f.serverAddress, "address", "a", "Net address host:port")
	fs.StringVarP(&f.adapterAddress, "remote", "r", "", "Record store base URL")
	fs.StringVarP(&f.databaseDSN, "database-dsn", "d", "", "Database DSN")
	fs.StringVar(&f.cacheDSN, "cache-dsn", "", "Client cache DSN")
	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.StringVar(&f.tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&f.tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&f.tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Server request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&f.remoteTimeout, "remote-timeout", 0, "Remote call deadline (e.g., 15s)")
	fs.StringVar(&f.hashKey, "hash-key", "", "Patch integrity hash key")
	fs.StringVar(&f.logFile, "log-file", "", "Client log file")
	fs.StringVar(&f.identityPoolID, "identity-pool-id", "", "Identity pool id")
	fs.StringVar(&f.identityID, "identity-id", "", "Identity id")
	fs.StringVar(&f.identityToken, "identity-token", "", "Web identity token")
	fs.StringVar(&f.roleArn, "role-arn", "", "Role assumed with the identity token")
	fs.StringVar(&f.region, "region", "", "Identity pool region")
	fs.StringSliceVar(&f.datasets, "datasets", nil, "Datasets pulled on init")
	fs.DurationVar(&f.syncInterval, "sync-interval", 0, "Background sync interval")

	return f
}

// Config returns the flag values as a partial [StructuredConfig].
func (f *Flags) Config() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			HashKey:       f.hashKey,
			TokenSignKey:  f.tokenSignKey,
			TokenIssuer:   f.tokenIssuer,
			TokenDuration: f.tokenDuration,
			LogFile:       f.logFile,
		},
		Storage: Storage{
			DB:    DB{DSN: f.databaseDSN},
			Cache: Cache{DSN: f.cacheDSN},
		},
		Server: Server{
			HTTPAddress:    f.serverAddress.String(),
			RequestTimeout: f.requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    f.adapterAddress,
			RequestTimeout: f.remoteTimeout,
		},
		Sync: Sync{
			Region:         f.region,
			RoleArn:        f.roleArn,
			IdentityPoolID: f.identityPoolID,
			IdentityID:     f.identityID,
			IdentityToken:  f.identityToken,
			Datasets:       f.datasets,
		},
		Workers:      Workers{SyncInterval: f.syncInterval},
		JSONFilePath: f.jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress, or an
// empty string when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "address"
}
