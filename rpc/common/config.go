package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Backend identifiers
// --------------------------------------------------------------------------

const (
	LogBackendMemory = "memory"
	LogBackendKafka  = "kafka"

	DurableBackendMemory   = "memory"
	DurableBackendPostgres = "postgres"
	DurableBackendMySQL    = "mysql"
	DurableBackendRocksDB  = "rocksdb"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// LogConfig configures the replication log.
type LogConfig struct {
	Backend           string   // memory or kafka
	Brokers           []string // kafka bootstrap brokers
	Topic             string   // topic shared by all instances
	GroupID           string   // consumer group, decides the replication fan-out
	Acks              string   // kafka producer acks: none, one, all
	PollTimeoutMillis int64    // upper bound of a single replicator poll
	IdlePauseMillis   int64    // pause after an empty poll
}

// PollTimeout returns the poll timeout as a duration
func (c LogConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMillis) * time.Millisecond
}

// IdlePause returns the idle pause as a duration
func (c LogConfig) IdlePause() time.Duration {
	return time.Duration(c.IdlePauseMillis) * time.Millisecond
}

// DurableConfig configures the durable store.
type DurableConfig struct {
	Backend    string // memory, postgres, mysql or rocksdb
	DSN        string // connection string for postgres and mysql
	DataDir    string // data directory for rocksdb
	Collection string // table / collection name
}

// SocketConfig holds the socket settings of the tcp and unix transports.
type SocketConfig struct {
	WriteBufferSize int  // bytes, 0 keeps the OS default
	ReadBufferSize  int  // bytes, 0 keeps the OS default
	TCPNoDelay      bool // disable Nagle's algorithm
	TCPKeepAliveSec int  // 0 disables keep-alive
	TCPLingerSec    int  // negative keeps the OS default
}

// ServerConfig holds all configuration parameters of a server process.
type ServerConfig struct {
	// Identity of this process, stamped on every record it appends
	NodeID string

	// Backends
	Log     LogConfig
	Durable DurableConfig

	// Timeout for every log and durable store call
	TimeoutSecond int64

	// RPC api settings
	Transport       string // http, tcp or unix
	Endpoint        string
	MetricsEndpoint string
	WorkersPerConn  int // tcp and unix only
	Socket          SocketConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// Timeout returns the per call timeout as a duration
func (c *ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Transport", c.Transport)
	addField("Endpoint", c.Endpoint)
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	if c.Transport != "http" {
		addField("Workers Per Connection", strconv.Itoa(c.WorkersPerConn))
		addField("TCP No Delay", strconv.FormatBool(c.Socket.TCPNoDelay))
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Log Format", c.LogFormat)

	// Node Identity
	addSection("Node Identity")
	addField("Node ID", c.NodeID)

	// Replication log
	addSection("Replication Log")
	addField("Backend", c.Log.Backend)
	if c.Log.Backend == LogBackendKafka {
		addField("Brokers", strings.Join(c.Log.Brokers, ", "))
		addField("Topic", c.Log.Topic)
		addField("Acks", c.Log.Acks)
	}
	addField("Consumer Group", c.Log.GroupID)
	addField("Poll Timeout", c.Log.PollTimeout().String())
	addField("Idle Pause", c.Log.IdlePause().String())

	// Durable store
	addSection("Durable Store")
	addField("Backend", c.Durable.Backend)
	addField("Collection", c.Durable.Collection)
	switch c.Durable.Backend {
	case DurableBackendPostgres, DurableBackendMySQL:
		addField("DSN", redactDSN(c.Durable.DSN))
	case DurableBackendRocksDB:
		addField("Data Directory", c.Durable.DataDir)
	}

	return sb.String()
}

// redactDSN hides the password of a connection string
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	creds := dsn[:at]
	start := 0
	if i := strings.Index(creds, "://"); i >= 0 {
		start = i + 3
	}
	colon := strings.Index(creds[start:], ":")
	if colon < 0 {
		return dsn
	}
	return creds[:start+colon+1] + "****" + dsn[at:]
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints              []string
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int
	Socket                 SocketConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
