package platform

import "github.com/shirou/gopsutil/v4/process"

// ProcessName resolves the executable name for a PID, or "" when the
// process is gone or inaccessible.
func ProcessName(pid int) string {
	if pid <= 0 {
		return ""
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	name, err := p.Name()
	if err != nil {
		return ""
	}
	return name
}
