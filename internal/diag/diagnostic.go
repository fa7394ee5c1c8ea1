package diag

import "fmt"

// Diagnostic is one finding about the configuration, the analyzed image or
// the generation run. Addr is the guest address the finding is about, 0 when
// it concerns the configuration as a whole.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Addr     uint32
	Message  string
}

func (d Diagnostic) String() string {
	if d.Addr != 0 {
		return fmt.Sprintf("%s [%s] 0x%08X: %s", d.Severity, d.Code, d.Addr, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}
