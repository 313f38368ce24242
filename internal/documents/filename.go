package documents

import "strings"

// Document kinds, used as the filename prefix.
const (
	KindVoucher       = "Voucher"
	KindTourManual    = "TourManual"
	KindOvernightList = "OvernightList"
)

var unsafeFilenameChars = strings.NewReplacer("/", "", "\\", "", "\"", "")

// Filename builds <kind>_<key>_<secondary>.txt with whitespace runs in
// secondary collapsed to a single underscore.
func Filename(kind, key, secondary string) string {
	secondary = strings.Join(strings.Fields(secondary), "_")
	return unsafeFilenameChars.Replace(kind + "_" + key + "_" + secondary + ".txt")
}

// WithExtension swaps the .txt suffix of a generated filename.
func WithExtension(name, ext string) string {
	return strings.TrimSuffix(name, ".txt") + ext
}
