package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	return reflect.TypeOf(v).Name()
}

/* Redis */

// stock-bearing models go stale quickly, everything else lives until invalidated
func typeHasExpiration(typeName string) bool {
	expirableTypes := map[string]bool{
		"Product":  true,
		"Customer": true,
		"Vendor":   true,
	}
	return expirableTypes[typeName]
}

func cacheDuration(typeName string) time.Duration {
	if typeHasExpiration(typeName) {
		return GetCacheLifespan()
	}
	return 0
}

// store instance, Type:$id
func StoreRedis[T any](obj *T, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, obj, cacheDuration(typeName))
}

// store list, TypeList
func StoreRedisList[T any](list []*T) error {
	typeName := GetTypeName[T]()
	return config.SetRedisObject(typeName+"List", list, cacheDuration(typeName))
}

// get from redis, returns nil if does not exist
func RetrieveRedis[T any](id int) (*T, error) {
	var result T
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	exists, err := config.GetRedisObject(key, &result)
	if err != nil || !exists {
		return nil, err
	}
	return &result, nil
}

func RetrieveRedisList[T any]() ([]*T, error) {
	var result []*T
	exists, err := config.GetRedisObject(GetTypeName[T]()+"List", &result)
	if err != nil || !exists {
		return nil, err
	}
	return result, nil
}

func RemoveRedisList[T any]() error {
	return config.RemoveRedisKey(GetTypeName[T]() + "List")
}

// remove an instance, Type:$id
func RemoveRedisItem[T any](id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}

// drop both the item and the list
func RemoveRedisBoth[T any](id int) error {
	if err := RemoveRedisItem[T](id); err != nil {
		return err
	}
	return RemoveRedisList[T]()
}
