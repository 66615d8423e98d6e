package application

// Discovery tables. New UI variants are handled by appending selectors or
// keyword alternatives here.

var credentialFieldSelectors = []string{
	`input#username`,
	`input[type="text"]`,
}

// Text-engine selectors (text=, :has-text) only resolve on playwright. Other
// engines reject them and the scanner moves on to the next strategy.

var modeSwitchTarget = Target{
	Name: "login mode switch",
	Selectors: []string{
		`text=/.*邮箱.*登.*/`,
	},
	Scan: TextScan{
		Candidates: "span, div, a, button, p",
		Keywords: [][]string{
			{"邮箱", "email"},
			{"登", "login", "sign in"},
		},
		MaxTextLen: 40,
	},
	Policy: FailOpen,
}

var usernameTarget = Target{
	Name: "username input",
	Selectors: []string{
		`input#username`,
		`input[placeholder*="用户名"]`,
		`input[placeholder*="邮箱"]`,
		`input[placeholder*="mail" i]`,
		`input[type="text"]`,
	},
	Policy: FailClosed,
}

var passwordTarget = Target{
	Name: "password input",
	Selectors: []string{
		`input#password`,
		`input[type="password"]`,
	},
	Policy: FailClosed,
}

var submitTarget = Target{
	Name: "submit button",
	Selectors: []string{
		`button:has-text("继续")`,
		`button[type="submit"]`,
	},
	Scan: TextScan{
		Candidates: "button",
		Keywords: [][]string{
			{"继续", "登录", "continue", "sign in", "log in"},
		},
		MaxTextLen: 20,
	},
	Policy: FailClosed,
}

const errorBannerSelector = `.error, .alert, [role="alert"], .toast, .message`

const errorBannerMaxLen = 200
