package utils

import (
	"fmt"
	"time"
)

// ConvertDateTimeToHumanReadableFormat renders a unix timestamp the way the
// storefront receipt shows it, pinned to WIB regardless of server timezone.
func ConvertDateTimeToHumanReadableFormat(datetime int64) string {
	t := time.Unix(datetime, 0)
	location := time.FixedZone("WIB", 7*60*60)
	wibTime := t.In(location)

	return wibTime.Format("02 January 2006, 15:04 WIB")
}

// ConvertDateTimeWibToUnixTimestamp parses Midtrans datetime strings, which are
// always expressed in WIB without an offset.
func ConvertDateTimeWibToUnixTimestamp(wibTime string) (int64, error) {
	wibLocation, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return 0, fmt.Errorf("error loading WIB time zone: %v", err)
	}

	t, err := time.ParseInLocation("2006-01-02 15:04:05", wibTime, wibLocation)
	if err != nil {
		return 0, fmt.Errorf("error parsing time: %v", err)
	}

	return t.Unix(), nil
}
