package downdetect

import (
	"sync"

	"pocketprc/internal/objectstore"
)

var downdetectService = &DowndetectService{}

var setupOnce sync.Once

func GetDowndetectService() *DowndetectService {
	return downdetectService
}

func SetupDependencies() {
	setupOnce.Do(func() {
		if downdetectService.objectStorage == nil {
			downdetectService.objectStorage = objectstore.GetObjectStore()
		}
	})
}
