// Large Doyt File Generator
//
// This tool generates a large doyt source file for performance testing and profiling.
// It mixes every token kind (keywords, literals with suffixes, strings with escapes,
// both comment forms and compound operators) to stress-test the lexer and its arena.
//
// Usage:
//
//	go run main.go > large.doyt
//	go run main.go 20000000 > large.doyt  # Specify target size in bytes
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	names = []string{
		"total", "count", "index", "value", "limit", "offset", "buffer",
		"result", "left", "right", "node", "depth", "width", "height",
		"ratio", "scale", "price", "amount", "queue", "cursor", "_tmp",
	}

	fields = []string{"size", "next", "prev", "data", "len", "cap", "head", "tail"}

	compareOps = []string{"==", "!=", ">=", "<=", ">", "<"}
	arithOps   = []string{"+", "-", "*", "/", "%", "**", "<<", ">>", "&", "|", "^"}
	logicOps   = []string{"&&", "||"}

	messages = []string{
		"ok", "not found", "retry\\tlater", "line\\nbreak",
		"quote \\\"inside\\\"", "it\\'s fine", "path\\\\to\\\\file",
	}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	writeHeader()

	bytesWritten := 0
	functionCount := 0

	for bytesWritten < targetSize {
		var output string

		switch rand.Intn(10) {
		case 0, 1, 2: // 30% - Arithmetic function
			output = generateArithmeticFunction(functionCount)
			functionCount++

		case 3, 4: // 20% - Branching function
			output = generateBranchingFunction(functionCount)
			functionCount++

		case 5, 6: // 20% - Assignments with suffixed literals
			output = generateAssignments()

		case 7: // 10% - Field and index access
			output = generateAccess()

		case 8: // 10% - Line comments
			output = generateLineComment()

		case 9: // 10% - Bracket comment
			output = generateBracketComment()
		}

		fmt.Print(output)
		bytesWritten += len(output)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d functions\n", bytesWritten, functionCount)
}

func writeHeader() {
	fmt.Println("// Large doyt file for performance testing")
	fmt.Println("// Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println()
}

func generateArithmeticFunction(n int) string {
	a, b := pick(names), pick(names)

	var body strings.Builder
	for i := 0; i < rand.Intn(4)+1; i++ {
		fmt.Fprintf(&body, "    %s = %s %s %s;\n", pick(names), a, pick(arithOps), randLiteral())
	}

	return fmt.Sprintf(`func calc_%d(%s, %s) {
%s    return %s %s %s;
}

`, n, a, b, body.String(), a, pick(arithOps), b)
}

func generateBranchingFunction(n int) string {
	x, y := pick(names), pick(names)

	return fmt.Sprintf(`func check_%d(%s, %s) {
    if %s %s %s %s !(%s %s %s) {
        return "%s";
    } else {
        return %s ? %s : %s;
    }
}

`, n, x, y,
		x, pick(compareOps), randLiteral(), pick(logicOps), y, pick(compareOps), randLiteral(),
		pick(messages),
		x, randBool(), randLiteral())
}

func generateAssignments() string {
	var b strings.Builder
	for i := 0; i < rand.Intn(5)+1; i++ {
		fmt.Fprintf(&b, "%s = %s;\n", pick(names), randLiteral())
	}
	b.WriteByte('\n')
	return b.String()
}

func generateAccess() string {
	return fmt.Sprintf("get %s.%s[%d];\n#%s;\n\n", pick(names), pick(fields), rand.Intn(1000), pick(names))
}

func generateLineComment() string {
	return fmt.Sprintf("// %s is %s\n", pick(names), pick(messages))
}

func generateBracketComment() string {
	return fmt.Sprintf("//( %s (%s) spans\n   two lines )\n\n", pick(names), pick(fields))
}

// Helper functions

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

func randBool() string {
	if rand.Intn(2) == 0 {
		return "true"
	}
	return "false"
}

// randLiteral returns a numeric literal of a random form: plain, separated,
// hexadecimal, octal, fractional, exponent or suffixed.
func randLiteral() string {
	switch rand.Intn(9) {
	case 0:
		return strconv.Itoa(rand.Intn(100000))
	case 1:
		return fmt.Sprintf("%d_%03d", rand.Intn(1000)+1, rand.Intn(1000))
	case 2:
		return fmt.Sprintf("0x%X", rand.Intn(1<<16))
	case 3:
		return fmt.Sprintf("0%o", rand.Intn(512)+1)
	case 4:
		return fmt.Sprintf("%.2f", rand.Float64()*1000)
	case 5:
		return fmt.Sprintf(".%d", rand.Intn(1000))
	case 6:
		return fmt.Sprintf("%de-%d", rand.Intn(9)+1, rand.Intn(9)+1)
	case 7:
		return fmt.Sprintf("%di", rand.Intn(1000))
	default:
		return fmt.Sprintf("%.3f%c", rand.Float64()*100, "fd"[rand.Intn(2)])
	}
}
