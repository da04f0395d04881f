package media

import (
	"bytes"
	"log"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureDateFromEXIF extracts the original capture date from a photo's
// EXIF block, formatted as YYYY-MM-DD. The second return is false when the
// image carries no usable EXIF date; that is normal for screenshots and
// stripped uploads, not an error.
func CaptureDateFromEXIF(data []byte) (string, bool) {
	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// not necessarily a problem, file might just lack EXIF data
		return "", false
	}

	dt, err := exifData.DateTime()
	if err != nil {
		log.Printf("media: Could not read EXIF DateTime: %v", err)
		return "", false
	}
	return dt.Format("2006-01-02"), true
}
