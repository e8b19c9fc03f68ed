package procio

import (
	"fmt"
)

func FormatPID(pid int) string {
	return fmt.Sprint(pid)
}

func FormatTID(pid, tid int) string {
	return fmt.Sprintf("%d/%d", pid, tid)
}
