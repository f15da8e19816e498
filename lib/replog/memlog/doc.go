// Package memlog implements replog.ILog as an in-process broker.
//
// Records are stored serialized, so producers and consumers never share memory.
// Consumer groups are tracked in an xsync.MapOf; each group has one offset shared by
// all of its subscriptions. The log is never truncated and is lost on restart.
package memlog
