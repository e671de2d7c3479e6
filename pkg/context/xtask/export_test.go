package xtask

// 测试钩子：暴露内部实现，校验快路径选择与替补路径本身。

var StackFallback Provider = stackProvider{}

var ParseGoroutineID = parseGoroutineID
