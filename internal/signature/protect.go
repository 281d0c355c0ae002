package signature

import "strconv"

// Memory protection constants of the Windows virtual memory API.
const (
	PageNoAccess         uint32 = 0x01
	PageReadOnly         uint32 = 0x02
	PageReadWrite        uint32 = 0x04
	PageWriteCopy        uint32 = 0x08
	PageExecute          uint32 = 0x10
	PageExecuteRead      uint32 = 0x20
	PageExecuteReadWrite uint32 = 0x40
	PageExecuteWriteCopy uint32 = 0x80
	PageGuard            uint32 = 0x100
	PageNoCache          uint32 = 0x200
	PageWriteCombine     uint32 = 0x400
	PageTargetsInvalid   uint32 = 0x40000000
	PageTargetsNoUpdate  uint32 = 0x40000000
)

// protectionNames is built once and never written to afterwards.
// PAGE_TARGETS_NO_UPDATE shares its value with PAGE_TARGETS_INVALID and so
// never appears as a name.
var protectionNames = map[uint32]string{
	PageExecute:          "PAGE_EXECUTE",
	PageExecuteRead:      "PAGE_EXECUTE_READ",
	PageExecuteReadWrite: "PAGE_EXECUTE_READWRITE",
	PageExecuteWriteCopy: "PAGE_EXECUTE_WRITECOPY",
	PageNoAccess:         "PAGE_NOACCESS",
	PageReadOnly:         "PAGE_READONLY",
	PageReadWrite:        "PAGE_READWRITE",
	PageWriteCopy:        "PAGE_WRITECOPY",
	PageTargetsInvalid:   "PAGE_TARGETS_INVALID",
	PageGuard:            "PAGE_GUARD",
	PageNoCache:          "PAGE_NOCACHE",
	PageWriteCombine:     "PAGE_WRITECOMBINE",
}

// ProtectionName returns the PAGE_* name of flag, or "PAGE_UNK" followed by
// the decimal value for flags that are not in the table.
func ProtectionName(flag uint32) string {
	if name, ok := protectionNames[flag]; ok {
		return name
	}
	return "PAGE_UNK" + strconv.FormatUint(uint64(flag), 10)
}

// KnownProtection reports whether flag has a name.
func KnownProtection(flag uint32) bool {
	_, ok := protectionNames[flag]
	return ok
}
