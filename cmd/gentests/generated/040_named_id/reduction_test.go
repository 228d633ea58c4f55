package gentests

import _ "embed"
import "testing"
import "github.com/vic/lambdabox/cmd/gentests/helper"

//go:embed input.lam
var input string

//go:embed output.lam
var output string

func Test_040_named_id_Reduction(t *testing.T) {
	gentests.CheckLambdaReduction(t, "040_named_id", input, output)
}
