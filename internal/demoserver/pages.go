package demoserver

import "html/template"

// captchaPNG is a 1x1 transparent PNG.
var captchaPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

var pages = template.Must(template.New("home").Parse(homeHTML))

func init() {
	template.Must(pages.New("login").Parse(loginHTML))
	template.Must(pages.New("account").Parse(accountHTML))
	template.Must(pages.New("denied").Parse(deniedHTML))
}

const homeHTML = `<!DOCTYPE html>
<html>
<head><title>Demo Site - Home</title></head>
<body>
    <h1>Welcome to Demo Site</h1>
    <nav class="main-nav">
        <a href="/">Home</a> |
        <a href="/login">Login</a> |
        <a href="/account">Account</a> |
        <a href="/redirect/3">Redirect chain</a> |
        <a href="/files/report.txt">Report</a>
    </nav>
    <form id="search" action="/echo">
        <input type="text" name="q" value="">
        <input type="hidden" name="lang" value="en">
    </form>
</body>
</html>`

const loginHTML = `<!DOCTYPE html>
<html>
<head><title>Demo Site - Login</title></head>
<body>
    <h1>Sign in</h1>
    <form id="login" action="session" method="post">
        <input type="hidden" name="csrf_token" value="{{.CSRF}}">
        <input type="text" name="username" value="">
        <input type="password" name="password" value="">
        <img src="/captcha.png" alt="captcha">
        <input type="text" name="captcha" value="">
        <button type="submit">Sign in</button>
    </form>
    <form id="newsletter" method="get" enctype="text/plain">
        <input type="email" name="email" value="guest@example.com">
    </form>
</body>
</html>`

const accountHTML = `<!DOCTYPE html>
<html>
<head><title>Demo Site - Account</title></head>
<body>
    <h1>Hello {{.User}}</h1>
    <p class="session">session {{.Session}}</p>
</body>
</html>`

const deniedHTML = `<!DOCTYPE html>
<html>
<head><title>Demo Site - Denied</title></head>
<body><h1>Access denied</h1><p>{{.Reason}}</p></body>
</html>`
