package stats

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Relay counts relay invocations. The zero value is not usable, use NewRelay.
type Relay struct {
	startTime time.Time

	requests  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

func NewRelay() *Relay {
	return &Relay{startTime: time.Now()}
}

func (r *Relay) RecordRequest() {
	r.requests.Add(1)
}

func (r *Relay) RecordResult(success bool) {
	if success {
		r.succeeded.Add(1)
	} else {
		r.failed.Add(1)
	}
}

type Snapshot struct {
	Requests  int64  `json:"requests"`
	Succeeded int64  `json:"succeeded"`
	Failed    int64  `json:"failed"`
	Uptime    string `json:"uptime"`
}

func (r *Relay) Snapshot() Snapshot {
	return Snapshot{
		Requests:  r.requests.Load(),
		Succeeded: r.succeeded.Load(),
		Failed:    r.failed.Load(),
		Uptime:    time.Since(r.startTime).Round(time.Second).String(),
	}
}

type SystemInfo struct {
	Hostname     string  `json:"hostname,omitempty"`
	OS           string  `json:"os,omitempty"`
	SystemUptime string  `json:"system_uptime,omitempty"`
	MemPercent   float64 `json:"mem_percent"`
	ProcessPID   int     `json:"process_pid"`
	ProcessMem   uint64  `json:"process_rss"`
	GoVersion    string  `json:"go_version"`
	Goroutines   int     `json:"goroutines"`
	HeapAlloc    uint64  `json:"heap_alloc"`
}

// GetSystemInfo collects what it can; sources that fail are left empty.
func GetSystemInfo() SystemInfo {
	info := SystemInfo{}

	if hostInfo, err := host.Info(); err == nil {
		info.Hostname = hostInfo.Hostname
		info.OS = hostInfo.OS
		info.SystemUptime = (time.Duration(hostInfo.Uptime) * time.Second).String()
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.MemPercent = memInfo.UsedPercent
	}

	info.ProcessPID = os.Getpid()
	if proc, err := process.NewProcess(int32(info.ProcessPID)); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			info.ProcessMem = memInfo.RSS
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	info.GoVersion = runtime.Version()
	info.Goroutines = runtime.NumGoroutine()
	info.HeapAlloc = m.Alloc

	return info
}
