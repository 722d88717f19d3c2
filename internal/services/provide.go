package services

import "github.com/samber/do"

// Provide registers every service constructor. Infrastructure such as stores,
// redsync, cache, presence and the logger must already be provided.
func Provide(injector *do.Injector) {
	do.Provide(injector, NewServiceConfig)
	do.Provide(injector, NewServiceProgression)
	do.Provide(injector, NewServiceLedger)
	do.Provide(injector, NewServiceSolvency)
	do.Provide(injector, NewServiceCasino)
	do.Provide(injector, NewServiceRain)
	do.Provide(injector, NewServiceShop)
}
