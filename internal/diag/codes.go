package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Configuration (1xxx)
	CfgInfo                Code = 1000
	CfgMissingProjectName  Code = 1001
	CfgMissingFilePath     Code = 1002
	CfgMissingOutDirectory Code = 1003
	CfgUnalignedAddress    Code = 1004
	CfgSizeEndConflict     Code = 1005
	CfgDegenerateSize      Code = 1006
	CfgOversizedFunction   Code = 1007
	CfgOrphanChunk         Code = 1008
	CfgChunkParentIsChunk  Code = 1009
	CfgHookRetAndJump      Code = 1010
	CfgHookJumpConflict    Code = 1011
	CfgEmptyJumpTable      Code = 1012
	CfgUnalignedJumpTarget Code = 1013
	CfgBadThreshold        Code = 1014

	// Analysis (2xxx)
	AnaInfo             Code = 2000
	AnaDataRegion       Code = 2001
	AnaUnboundedScan    Code = 2002
	AnaJumpExtension    Code = 2003
	AnaCacheInvalidated Code = 2004

	// Generation (3xxx)
	GenInfo          Code = 3000
	GenUnimplemented Code = 3001
	GenHookApplied   Code = 3002
	GenForcedRun     Code = 3003
	GenEmitFailed    Code = 3004

	// I/O (4xxx)
	IOInfo            Code = 4000
	IOOutputDir       Code = 4001
	IOCleanFailed     Code = 4002
	IOWriteFailed     Code = 4003
	IOImageUnreadable Code = 4004
	IOCacheUnusable   Code = 4005
)

func (c Code) String() string {
	return fmt.Sprintf("R%04d", uint16(c))
}
