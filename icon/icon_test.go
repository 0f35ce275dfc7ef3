package icon

import (
	"fmt"
	"testing"

	"github.com/reel-player/reel/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given every registered icon", t, func() {
		for target := range icons {
			Convey(fmt.Sprintf("Icon %d renders for each variant", target), func() {
				for _, variant := range AvailableVariants() {
					viper.Set(key.IconsVariant, variant)
					So(Get(target), ShouldNotBeEmpty)
				}
			})

			Convey(fmt.Sprintf("Icon %d is empty for an unknown variant", target), func() {
				viper.Set(key.IconsVariant, "")
				So(Get(target), ShouldBeEmpty)
			})
		}
	})
}
