package diag

// Reporter — минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), NopReporter, MultiReporter (fan-out).
type Reporter interface {
	Report(code Code, sev Severity, addr uint32, msg string)
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, addr uint32, msg string) {
	if r != nil {
		r.Report(code, SevError, addr, msg)
	}
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, addr uint32, msg string) {
	if r != nil {
		r.Report(code, SevWarning, addr, msg)
	}
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, addr uint32, msg string) {
	if r != nil {
		r.Report(code, SevInfo, addr, msg)
	}
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, addr uint32, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Code: code, Addr: addr, Message: msg})
}

// NopReporter отбрасывает все диагностики.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, uint32, string) {}

// MultiReporter fan-out: рассылает диагностику всем вложенным репортерам.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, addr uint32, msg string) {
	for _, r := range m {
		if r != nil {
			r.Report(code, sev, addr, msg)
		}
	}
}
