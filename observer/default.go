package observer

func PushTarget(sub Subscriber) {
	Default.PushTarget(sub)
}

func PopTarget() {
	Default.PopTarget()
}

func Observe(value any, asRootData bool) *Observer {
	return Default.Observe(value, asRootData)
}

func DefineReactive(obj *Object, key string, opts ...PropertyOption) {
	Default.DefineReactive(obj, key, opts...)
}

func Set(target any, key any, val any) any {
	return Default.Set(target, key, val)
}

func Del(target any, key any) {
	Default.Del(target, key)
}

func ToggleObserving(value bool) {
	Default.ToggleObserving(value)
}
