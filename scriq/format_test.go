package scriq

import "testing"

func TestFormatProgram(t *testing.T) {
	root := program(
		assign("m", list(list(num("1"), num("2")), list(num("3"), num("4")))),
		assign("x", bin(OpMul, bin(OpAdd, num("1"), num("2")), num("3"))),
		assign("y", bin(OpSub, num("1"), bin(OpSub, num("2"), num("3")))),
		assign("z", bin(OpPow, &UnaryExpr{Operator: OpNeg, Operand: num("2")}, num("2"))),
		while(bin(OpAnd, bin(OpLT, ident("x"), num("10")), &UnaryExpr{Operator: OpNot, Operand: boolean(false)}),
			&IfStmt{
				Clauses: []*IfClause{
					{Condition: bin(OpEq, ident("x"), num("3")), Body: []Statement{&ContinueStmt{}}},
					{Condition: bin(OpGT, ident("x"), num("5")), Body: []Statement{&BreakStmt{}}},
				},
				Else: []Statement{},
			},
			&PrintStmt{Value: index("m", num("0"), slice(nil, num("1")))},
		),
		ret(call(0, "f", str(`"a ""b"""`), &NullLiteral{})),
	)
	want := `m = [[1, 2], [3, 4]]
x = (1 + 2) * 3
y = 1 - (2 - 3)
z = (-2) ** 2
while x < 10 and not False:
    if x == 3:
        continue
    elif x > 5:
        break
    else:
        pass
    print(m[0, :1])
return f("a ""b""", None)
`
	if got := Format(root); got != want {
		t.Fatalf("unexpected source:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatExpression(t *testing.T) {
	if got := Format(bin(OpDot, ident("a"), ident("b"))); got != "a . b\n" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Format(&StringLiteral{Text: "plain"}); got != "\"plain\"\n" {
		t.Fatalf("unexpected %q", got)
	}
}
