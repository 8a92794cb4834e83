package contextkeys

type contextKey string

const PlayerKey contextKey = "player"
const RouteKey contextKey = "route"
const RoutesKey contextKey = "routes"
const CSRFTokenKey contextKey = "csrf_token"
