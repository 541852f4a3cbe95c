package util

func GetAppName() string {
	return "CadetTrack"
}
